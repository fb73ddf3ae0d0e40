// Package database is the command layer: it parses a request into a
// typed command, validates it, executes it against the keyspace under
// the exclusive keyspace lock and decides what reaches the
// append-only file. It also replays that file at startup.
package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/hdt3213/godis/lib/logger"

	hexagondb "github.com/ibrahmsql/hexagondb"
	"github.com/ibrahmsql/hexagondb/aof"
	"github.com/ibrahmsql/hexagondb/config"
	"github.com/ibrahmsql/hexagondb/interface/redis"
	"github.com/ibrahmsql/hexagondb/protocol"
	"github.com/ibrahmsql/hexagondb/session"
)

// Server is a standalone database server: one keyspace, one optional
// append-only log, one command table.
type Server struct {
	db  *hexagondb.DB
	log *aof.Log
	// loading is set during replay so re-executed records (and the
	// expirations they trigger) are not logged again.
	loading     bool
	requirePass string
	status      *Status
}

// NewStandaloneServer builds the server from global config: opens and
// replays the append-only file when enabled, then starts the
// expiration sweeper. It must complete before connections are
// accepted.
func NewStandaloneServer() (*Server, error) {
	props := config.Properties
	s := &Server{
		db:          hexagondb.New(),
		requirePass: props.RequirePass,
		status:      NewStatus(),
	}
	if props.AppendOnly {
		dir := props.Dir
		if dir == "" {
			dir = "."
		}
		log, err := aof.Open(dir, props.AppendFilename, props.AppendFsync == "always")
		if err != nil {
			return nil, err
		}
		s.log = log
		if err := s.loadLog(); err != nil {
			_ = log.Close()
			return nil, err
		}
	}
	interval := time.Duration(props.SweepInterval) * time.Second
	if interval <= 0 {
		interval = time.Second
	}
	s.db.StartSweeper(interval)
	return s, nil
}

// RequiresAuth reports whether sessions must authenticate.
func (s *Server) RequiresAuth() bool {
	return s.requirePass != ""
}

// Status exposes the server counters for the connection layer.
func (s *Server) Status() *Status {
	return s.status
}

// Exec executes one command for the given session and returns its
// reply. Every error is converted into an error reply here; the
// connection layer closes the socket only when the session locks.
func (s *Server) Exec(sess *session.Session, cmdLine [][]byte) (result redis.Reply) {
	defer func() {
		if err := recover(); err != nil {
			logger.Warn(fmt.Sprintf("error occurs: %v", err))
			result = &protocol.UnknownErrReply{}
		}
	}()
	if len(cmdLine) == 0 {
		return &protocol.UnknownErrReply{}
	}
	s.status.IncrCommands()
	name := strings.ToLower(string(cmdLine[0]))
	// AUTH 独立于命令表，未认证状态也要能执行
	if name == "auth" {
		if !validateArity(2, cmdLine) {
			return protocol.MakeArgNumErrReply(name)
		}
		return s.execAuth(sess, cmdLine[1:])
	}
	if !sess.Authenticated() {
		return &protocol.AuthRequiredErrReply{}
	}
	cmd, ok := cmdTable[name]
	if !ok {
		return protocol.MakeErrReply("ERR unknown command '" + string(cmdLine[0]) + "'")
	}
	if !validateArity(cmd.arity, cmdLine) {
		return protocol.MakeArgNumErrReply(name)
	}
	if cmd.lockFree() {
		return cmd.executor(s, cmdLine[1:])
	}
	// 单把键空间锁：命令执行和 AOF 追加在同一个临界区内完成
	s.db.Lock()
	defer s.db.Unlock()
	return cmd.executor(s, cmdLine[1:])
}

// execAuth checks the password and drives the session state machine.
// Attempt counts are reported as N/3; the third failure locks the
// session and the connection layer closes the socket.
func (s *Server) execAuth(sess *session.Session, args [][]byte) redis.Reply {
	if s.requirePass == "" {
		return protocol.MakeErrReply("ERR Client sent AUTH, but no password is set")
	}
	if string(args[0]) == s.requirePass {
		sess.Grant()
		return protocol.MakeOkReply()
	}
	attempts, locked := sess.Reject()
	if locked {
		return protocol.MakeErrReply(fmt.Sprintf(
			"ERR too many failed authentication attempts (%d/%d), closing connection",
			attempts, session.MaxAuthAttempts))
	}
	return protocol.MakeErrReply(fmt.Sprintf(
		"ERR invalid password (%d/%d)", attempts, session.MaxAuthAttempts))
}

// append submits one record to the append-only file. Executors call it
// after the mutation is applied, still inside the keyspace critical
// section, and only when state actually changed. During replay it is a
// no-op.
func (s *Server) append(cmdLine [][]byte) {
	if s.log == nil || s.loading {
		return
	}
	if err := s.log.Append(cmdLine); err != nil {
		logger.Error("aof append failed:", err)
	}
}

// loadLog replays the append-only file through the same command table
// used for live traffic. Relative TTLs were rewritten to EXPIREAT when
// logged, so a deadline that elapsed while the server was down stays
// elapsed. A record that executes into an error reply is logged and
// skipped; a corrupt record mid-file aborts startup.
func (s *Server) loadLog() error {
	s.loading = true
	defer func() {
		s.loading = false
	}()
	var replayed int
	err := s.log.Fold(func(cmdLine [][]byte) error {
		name := strings.ToLower(string(cmdLine[0]))
		cmd, ok := cmdTable[name]
		if !ok {
			logger.Warn("aof: skipping unknown command " + name)
			return nil
		}
		if !validateArity(cmd.arity, cmdLine) {
			logger.Warn("aof: skipping record with bad arity for " + name)
			return nil
		}
		if cmd.readOnly() {
			logger.Warn("aof: skipping read-only record " + name)
			return nil
		}
		s.db.Lock()
		reply := cmd.executor(s, cmdLine[1:])
		s.db.Unlock()
		if protocol.IsErrorReply(reply) {
			logger.Warn("aof: record replay error: " + string(reply.ToBytes()))
			return nil
		}
		replayed++
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("aof: replayed %d records", replayed))
	return nil
}

// AfterClientClose does cleanup after client close connection
func (s *Server) AfterClientClose(c redis.Connection) {
}

// Close stops the sweeper and releases the append-only file.
func (s *Server) Close() error {
	s.db.StopSweeper()
	if s.log != nil {
		return s.log.Close()
	}
	return nil
}
