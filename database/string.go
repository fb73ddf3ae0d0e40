package database

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/hdt3213/godis/lib/utils"

	hexagondb "github.com/ibrahmsql/hexagondb"
	"github.com/ibrahmsql/hexagondb/interface/redis"
	"github.com/ibrahmsql/hexagondb/protocol"
)

// errorReply converts an engine error into its protocol reply.
func errorReply(err error) redis.Reply {
	switch {
	case errors.Is(err, hexagondb.ErrWrongType):
		return &protocol.WrongTypeErrReply{}
	case errors.Is(err, hexagondb.ErrNotInteger):
		return &protocol.NotIntegerErrReply{}
	case errors.Is(err, hexagondb.ErrIncrDecrOverflow):
		return protocol.MakeErrReply("ERR increment or decrement would overflow")
	}
	return protocol.MakeErrReply("ERR " + err.Error())
}

// makeExpireAtCmd rewrites a relative TTL into the absolute-deadline
// record the append-only file stores, so replay reproduces
// present-time expiration instead of restarting the clock.
func makeExpireAtCmd(key string, at time.Time) CmdLine {
	return utils.ToCmdLine("expireat", key, strconv.FormatInt(at.Unix(), 10))
}

func execGet(s *Server, args [][]byte) redis.Reply {
	val, err := s.db.Get(string(args[0]))
	if err != nil {
		return errorReply(err)
	}
	if val == nil {
		return protocol.MakeNullBulkReply()
	}
	return protocol.MakeBulkReply(val)
}

// execSet stores a string value: SET key value [EX seconds]
func execSet(s *Server, args [][]byte) redis.Reply {
	key := string(args[0])
	value := args[1]
	var ttl time.Duration
	for i := 2; i < len(args); i++ {
		switch strings.ToUpper(string(args[i])) {
		case "EX":
			if ttl != 0 || i+1 >= len(args) {
				return protocol.MakeSyntaxErrReply()
			}
			secs, err := strconv.ParseInt(string(args[i+1]), 10, 64)
			if err != nil || secs <= 0 || secs > maxExpireSeconds {
				return protocol.MakeErrReply("ERR invalid expire time in 'set' command")
			}
			ttl = time.Duration(secs) * time.Second
			i++
		default:
			return protocol.MakeSyntaxErrReply()
		}
	}
	s.db.Set(key, value, 0)
	s.append(utils.ToCmdLine3("set", args[0], args[1]))
	if ttl > 0 {
		deadline := time.Now().Add(ttl)
		s.db.ExpireAt(key, deadline)
		s.append(makeExpireAtCmd(key, deadline))
	}
	return protocol.MakeOkReply()
}

func execIncr(s *Server, args [][]byte) redis.Reply {
	return incrBy(s, args, "incr", 1)
}

func execDecr(s *Server, args [][]byte) redis.Reply {
	return incrBy(s, args, "decr", -1)
}

func execIncrBy(s *Server, args [][]byte) redis.Reply {
	delta, err := strconv.ParseInt(string(args[1]), 10, 64)
	if err != nil {
		return &protocol.NotIntegerErrReply{}
	}
	return incrBy(s, args, "incrby", delta)
}

func execDecrBy(s *Server, args [][]byte) redis.Reply {
	delta, err := strconv.ParseInt(string(args[1]), 10, 64)
	if err != nil {
		return &protocol.NotIntegerErrReply{}
	}
	return incrBy(s, args, "decrby", -delta)
}

// incrBy runs the counter mutation and, on success, logs the original
// command: replay through the same executor is deterministic.
func incrBy(s *Server, args [][]byte, name string, delta int64) redis.Reply {
	val, err := s.db.IncrBy(string(args[0]), delta)
	if err != nil {
		return errorReply(err)
	}
	s.append(utils.ToCmdLine3(name, args...))
	return protocol.MakeIntReply(val)
}

func init() {
	registerCommand("Get", execGet, 2, flagReadOnly)
	registerCommand("Set", execSet, -3, flagWrite)
	registerCommand("Incr", execIncr, 2, flagWrite)
	registerCommand("Decr", execDecr, 2, flagWrite)
	registerCommand("IncrBy", execIncrBy, 3, flagWrite)
	registerCommand("DecrBy", execDecrBy, 3, flagWrite)
}
