package main

import (
	"fmt"
	"os"

	"github.com/hdt3213/godis/lib/logger"

	"github.com/ibrahmsql/hexagondb/config"
	"github.com/ibrahmsql/hexagondb/server"
	"github.com/ibrahmsql/hexagondb/tcp"
)

var banner = `hexagondb server starting`

var defaultProperties = &config.ServerProperties{
	Bind:          "127.0.0.1",
	Port:          6399,
	MaxClients:    1000,
	AppendOnly:    false,
	SweepInterval: 1,
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func main() {
	logger.Setup(&logger.Settings{
		Path:       "logs",
		Name:       "hexagondb",
		Ext:        ".log",
		TimeFormat: "2006-01-02",
	})

	// 配置文件路径优先从环境变量中读取
	configFilename := os.Getenv("CONFIG")
	if configFilename == "" {
		if fileExists("hexagondb.conf") {
			config.SetupConfig("hexagondb.conf")
		} else {
			config.Properties = defaultProperties
		}
	} else {
		config.SetupConfig(configFilename)
	}

	logger.Info(banner)
	handler, err := server.MakeHandler()
	if err != nil {
		logger.Fatal(err)
	}
	err = tcp.ListenAndServeWithSignal(&tcp.Config{
		Address:    fmt.Sprintf("%s:%d", config.Properties.Bind, config.Properties.Port),
		MaxConnect: uint32(config.Properties.MaxClients),
	}, handler)
	if err != nil {
		logger.Error(err)
	}
}
