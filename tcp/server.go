package tcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/hdt3213/godis/interface/tcp"
	"github.com/hdt3213/godis/lib/logger"
)

// Config stores tcp server properties
type Config struct {
	Address    string        `yaml:"address"`
	MaxConnect uint32        `yaml:"max-connect"`
	Timeout    time.Duration `yaml:"timeout"`
}

// ClientCounter records the number of connected clients
var ClientCounter int32

var busyBytes = []byte("ERR max number of clients reached\r\n")

// ListenAndServeWithSignal binds the address and serves until one of
// SIGHUP, SIGQUIT, SIGTERM or SIGINT arrives.
func ListenAndServeWithSignal(cfg *Config, handler tcp.Handler) error {
	closeChan := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigCh
		switch sig {
		case syscall.SIGHUP, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGINT:
			closeChan <- struct{}{}
		}
	}()
	listener, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("bind: %s, start listening...", cfg.Address))
	ListenAndServe(listener, handler, cfg.MaxConnect, closeChan)
	return nil
}

// ListenAndServe accepts connections until closeChan fires or Accept
// fails. Connections beyond maxConnect (0 means unlimited) are turned
// away with an error line.
func ListenAndServe(listener net.Listener, handler tcp.Handler, maxConnect uint32, closeChan <-chan struct{}) {
	errCh := make(chan error, 1)
	defer close(errCh)
	go func() {
		select {
		case <-closeChan:
			logger.Info("get exit signal")
		case er := <-errCh:
			logger.Info(fmt.Sprintf("accept error: %s", er.Error()))
		}
		logger.Info("shutting down...")
		_ = listener.Close()
		_ = handler.Close() // close connections
	}()

	ctx := context.Background()
	var waitDone sync.WaitGroup
	for {
		// Accept 会一直阻塞直到有新的连接建立或者listen中断才会返回
		conn, err := listener.Accept()
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				logger.Info(fmt.Sprintf("accept occurs temporary error: %v, retry in 5ms", err))
				time.Sleep(5 * time.Millisecond)
				continue
			}
			errCh <- err
			break
		}
		if maxConnect > 0 && uint32(atomic.LoadInt32(&ClientCounter)) >= maxConnect {
			// 超过连接上限，直接拒绝
			logger.Warn("refusing connection: max number of clients reached")
			_, _ = conn.Write(busyBytes)
			_ = conn.Close()
			continue
		}
		logger.Info("accept link")
		atomic.AddInt32(&ClientCounter, 1)
		waitDone.Add(1)
		go func() {
			defer func() {
				waitDone.Done()
				atomic.AddInt32(&ClientCounter, -1)
			}()
			handler.Handle(ctx, conn)
		}()
	}
	waitDone.Wait()
}
