package database

import (
	redis2 "github.com/ibrahmsql/hexagondb/interface/redis"
	"github.com/ibrahmsql/hexagondb/session"
)

// CmdLine is alias for [][]byte, represents a command line
type CmdLine = [][]byte

// DB is the interface the connection layer dispatches through: one
// call per framed request, gated by the caller's session.
type DB interface {
	Exec(sess *session.Session, cmdLine [][]byte) redis2.Reply
	RequiresAuth() bool
	AfterClientClose(c redis2.Connection)
	Close() error
}
