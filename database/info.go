package database

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ibrahmsql/hexagondb/config"
	"github.com/ibrahmsql/hexagondb/utils"
)

// Status holds the server counters reported by INFO. The connection
// layer updates the connection counters, Exec the command counter.
type Status struct {
	startedAt     time.Time
	commands      atomic.Int64
	connections   atomic.Int64
	totalConnects atomic.Int64
}

func NewStatus() *Status {
	return &Status{startedAt: time.Now()}
}

func (st *Status) IncrCommands() {
	st.commands.Add(1)
}

func (st *Status) ConnOpened() {
	st.connections.Add(1)
	st.totalConnects.Add(1)
}

func (st *Status) ConnClosed() {
	st.connections.Add(-1)
}

func (st *Status) Commands() int64    { return st.commands.Load() }
func (st *Status) Connections() int64 { return st.connections.Load() }

// infoText renders the INFO sections. Disk figures are best effort and
// reported as -1 when the data directory cannot be inspected. The disk
// walk happens before the keyspace lock is taken; INFO runs lock free
// and only the keyspace counters are read inside a short critical
// section.
func (s *Server) infoText() string {
	st := s.status
	uptime := int64(time.Since(st.startedAt).Seconds())

	dir := config.Properties.Dir
	if dir == "" {
		dir, _ = os.Getwd()
	}
	dirSize, err := utils.DirSize(dir)
	if err != nil {
		dirSize = -1
	}
	var diskFree int64 = -1
	if free, err := utils.AvailableDiskSize(dir); err == nil {
		diskFree = int64(free)
	}

	var aofSize int64 = -1
	aofEnabled := 0
	s.db.Lock()
	if s.log != nil {
		aofEnabled = 1
		aofSize = s.log.Size()
	}
	keys := s.db.Size()
	expired := s.db.ExpiredKeys()
	s.db.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "# Server\n")
	fmt.Fprintf(&b, "os:%s\n", runtime.GOOS)
	fmt.Fprintf(&b, "arch:%s\n", runtime.GOARCH)
	fmt.Fprintf(&b, "process_id:%d\n", os.Getpid())
	fmt.Fprintf(&b, "uptime_in_seconds:%d\n", uptime)
	fmt.Fprintf(&b, "tcp_port:%d\n", config.Properties.Port)
	fmt.Fprintf(&b, "# Clients\n")
	fmt.Fprintf(&b, "connected_clients:%d\n", st.connections.Load())
	fmt.Fprintf(&b, "total_connections_received:%d\n", st.totalConnects.Load())
	fmt.Fprintf(&b, "# Stats\n")
	fmt.Fprintf(&b, "total_commands_processed:%d\n", st.commands.Load())
	fmt.Fprintf(&b, "expired_keys:%d\n", expired)
	fmt.Fprintf(&b, "# Keyspace\n")
	fmt.Fprintf(&b, "keys:%d\n", keys)
	fmt.Fprintf(&b, "# Persistence\n")
	fmt.Fprintf(&b, "aof_enabled:%d\n", aofEnabled)
	fmt.Fprintf(&b, "aof_size_in_bytes:%d\n", aofSize)
	fmt.Fprintf(&b, "data_dir_size_in_bytes:%d\n", dirSize)
	fmt.Fprintf(&b, "disk_free_in_bytes:%d\n", diskFree)
	return b.String()
}
