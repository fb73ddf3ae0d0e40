package tcp

import (
	"bufio"
	"context"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// echoHandler answers every line with itself, enough to exercise the
// accept loop.
type echoHandler struct {
	activeConn sync.Map
	closed     bool
	mu         sync.Mutex
}

func (h *echoHandler) Handle(ctx context.Context, conn net.Conn) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.mu.Unlock()
	h.activeConn.Store(conn, struct{}{})
	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				_ = conn.Close()
			}
			h.activeConn.Delete(conn)
			return
		}
		_, _ = conn.Write([]byte(line))
	}
}

func (h *echoHandler) Close() error {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
	h.activeConn.Range(func(key, value interface{}) bool {
		_ = key.(net.Conn).Close()
		return true
	})
	return nil
}

func TestListenAndServe(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	assert.Nil(t, err)
	closeChan := make(chan struct{})
	go ListenAndServe(listener, &echoHandler{}, 0, closeChan)

	conn, err := net.Dial("tcp", listener.Addr().String())
	assert.Nil(t, err)
	_, err = conn.Write([]byte("hello\n"))
	assert.Nil(t, err)
	line, err := bufio.NewReader(conn).ReadString('\n')
	assert.Nil(t, err)
	assert.Equal(t, "hello\n", line)
	_ = conn.Close()

	closeChan <- struct{}{}
}

func TestMaxConnectRejection(t *testing.T) {
	// connections from the previous test may still be draining
	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt32(&ClientCounter) != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	assert.Nil(t, err)
	closeChan := make(chan struct{})
	go ListenAndServe(listener, &echoHandler{}, 1, closeChan)

	first, err := net.Dial("tcp", listener.Addr().String())
	assert.Nil(t, err)
	defer first.Close()
	_, err = first.Write([]byte("ping\n"))
	assert.Nil(t, err)
	_, err = bufio.NewReader(first).ReadString('\n')
	assert.Nil(t, err)

	// second client is over the limit and gets an error line
	second, err := net.Dial("tcp", listener.Addr().String())
	assert.Nil(t, err)
	defer second.Close()
	_ = second.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := bufio.NewReader(second).ReadString('\n')
	assert.Nil(t, err)
	assert.Equal(t, "ERR max number of clients reached\r\n", line)

	closeChan <- struct{}{}
}
