package config

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/hdt3213/godis/lib/logger"
)

// ServerProperties defines global config properties
type ServerProperties struct {
	Bind           string `cfg:"bind"`
	Port           int    `cfg:"port"`
	MaxClients     int    `cfg:"maxclients"`
	RequirePass    string `cfg:"requirepass"`
	Dir            string `cfg:"dir,omitempty"`
	AppendOnly     bool   `cfg:"appendonly"`
	AppendFilename string `cfg:"appendfilename"`
	AppendFsync    string `cfg:"appendfsync"`
	// SweepInterval is the active expiration pass period in seconds.
	SweepInterval int `cfg:"sweep-interval"`
	// config file path
	CfPath string `cfg:"cf,omitempty"`
}

// Properties holds global config properties
var Properties *ServerProperties

func init() {
	Properties = &ServerProperties{
		Bind:          "127.0.0.1",
		Port:          6399,
		AppendOnly:    false,
		SweepInterval: 1,
	}
}

func parse(src io.Reader) *ServerProperties {
	config := &ServerProperties{}
	rawMap := make(map[string]string)
	// read config file
	scanner := bufio.NewScanner(src)
	for scanner.Scan() {
		line := scanner.Text()
		// 跳过注释行
		if len(line) > 0 && strings.TrimLeft(line, " ")[0] == '#' {
			continue
		}
		parts := strings.SplitN(line, " ", 2)
		if len(parts) == 2 {
			key := parts[0]
			value := strings.Trim(parts[1], " ")
			rawMap[strings.ToLower(key)] = value
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Fatal(err)
	}
	// store properties into config
	t := reflect.TypeOf(config)
	v := reflect.ValueOf(config)
	n := t.Elem().NumField()
	for i := 0; i < n; i++ {
		field := t.Elem().Field(i)
		fieldValue := v.Elem().Field(i)
		// get key from tag if not exists, use field name
		key, ok := field.Tag.Lookup("cfg")
		if !ok || strings.TrimLeft(key, " ") == "" {
			key = field.Name
		} else {
			key = strings.Split(key, ",")[0]
		}
		value, ok := rawMap[strings.ToLower(key)]
		if ok {
			switch field.Type.Kind() {
			case reflect.String:
				fieldValue.SetString(value)
			case reflect.Int:
				intValue, err := strconv.ParseInt(value, 10, 64)
				if err == nil {
					fieldValue.SetInt(intValue)
				}
			case reflect.Bool:
				boolValue := value == "yes"
				fieldValue.SetBool(boolValue)
			}
		}
	}
	return config
}

// SetupConfig read config file and store properties into Properties
func SetupConfig(configFilename string) {
	file, err := os.Open(configFilename)
	if err != nil {
		panic(err)
	}
	defer file.Close()
	Properties = parse(file)
	configFilePath, err := filepath.Abs(configFilename)
	if err != nil {
		return
	}
	Properties.CfPath = configFilePath
	if Properties.Dir == "" {
		Properties.Dir = "."
	}
	if Properties.SweepInterval <= 0 {
		Properties.SweepInterval = 1
	}
}
