package connection

import (
	"net"
	"time"

	"github.com/hdt3213/godis/lib/sync/wait"
)

// Connection wraps the tcp connection of one client. Writes are
// tracked so Close can wait for in-flight replies during shutdown.
type Connection struct {
	conn        net.Conn
	sendingData wait.Wait
}

func NewConn(conn net.Conn) *Connection {
	return &Connection{conn: conn}
}

// Write sends a reply to the client.
func (c *Connection) Write(bytes []byte) (int, error) {
	if len(bytes) == 0 {
		return 0, nil
	}
	c.sendingData.Add(1)
	defer c.sendingData.Done()
	return c.conn.Write(bytes)
}

// Close waits up to ten seconds for pending replies, then closes the
// underlying connection.
func (c *Connection) Close() error {
	c.sendingData.WaitWithTimeout(10 * time.Second)
	return c.conn.Close()
}

// RemoteAddr returns the remote network address.
func (c *Connection) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

func (c *Connection) Name() string {
	if c.conn != nil {
		return c.conn.RemoteAddr().String()
	}
	return ""
}
