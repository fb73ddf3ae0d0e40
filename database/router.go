package database

import (
	"strings"

	"github.com/ibrahmsql/hexagondb/interface/redis"
)

// CmdLine is alias for [][]byte, represents a command line
type CmdLine = [][]byte

// ExecFunc is interface for command executor
// args don't include cmd line
type ExecFunc func(s *Server, args [][]byte) redis.Reply

var cmdTable = make(map[string]*command)

type command struct {
	name     string
	executor ExecFunc
	// arity means allowed number of cmdArgs, arity < 0 means len(args) >= -arity.
	// for example: the arity of `get` is 2, `del` is -2
	arity int
	flags int
}

const (
	flagWrite = 0
	// flagReadOnly commands never touch the append-only file.
	flagReadOnly = 1
	// flagLockFree executors do their own synchronization; Exec does
	// not hold the keyspace lock around them.
	flagLockFree = 2
)

// registerCommand wires a command into the dispatch table. Called from
// init functions of the per-type command files.
func registerCommand(name string, executor ExecFunc, arity int, flags int) *command {
	name = strings.ToLower(name)
	cmd := &command{
		name:     name,
		executor: executor,
		arity:    arity,
		flags:    flags,
	}
	cmdTable[name] = cmd
	return cmd
}

func (c *command) readOnly() bool {
	return c.flags&flagReadOnly > 0
}

func (c *command) lockFree() bool {
	return c.flags&flagLockFree > 0
}

func validateArity(arity int, cmdArgs [][]byte) bool {
	argNum := len(cmdArgs)
	if arity >= 0 {
		return argNum == arity
	}
	return argNum >= -arity
}
