package database

import (
	"math"
	"strconv"
	"time"

	"github.com/hdt3213/godis/lib/utils"

	"github.com/ibrahmsql/hexagondb/interface/redis"
	"github.com/ibrahmsql/hexagondb/protocol"
)

// execDel removes keys: DEL key [key ...]. Only keys that actually
// existed are logged, so a DEL of an absent key never reaches the
// append-only file.
func execDel(s *Server, args [][]byte) redis.Reply {
	var deleted []string
	for _, raw := range args {
		key := string(raw)
		if s.db.Delete(key) {
			deleted = append(deleted, key)
		}
	}
	if len(deleted) > 0 {
		s.append(utils.ToCmdLine(append([]string{"del"}, deleted...)...))
	}
	return protocol.MakeIntReply(int64(len(deleted)))
}

func execExists(s *Server, args [][]byte) redis.Reply {
	var count int64
	for _, raw := range args {
		if s.db.Exists(string(raw)) {
			count++
		}
	}
	return protocol.MakeIntReply(count)
}

// execKeys lists keys matching "*" or "prefix*", sorted.
func execKeys(s *Server, args [][]byte) redis.Reply {
	keys := s.db.Keys(string(args[0]))
	if len(keys) == 0 {
		return protocol.MakeEmptyMultiBulkReply()
	}
	lines := make([][]byte, len(keys))
	for i, key := range keys {
		lines[i] = []byte(key)
	}
	return protocol.MakeMultiBulkReply(lines)
}

// maxExpireSeconds is the largest TTL that still fits a time.Duration.
// Beyond it the multiplication by time.Second wraps around and a huge
// TTL would land in the past.
const maxExpireSeconds = math.MaxInt64 / int64(time.Second)

// execExpire sets a relative TTL. The record logged is the absolute
// EXPIREAT form (§makeExpireAtCmd).
func execExpire(s *Server, args [][]byte) redis.Reply {
	key := string(args[0])
	secs, err := strconv.ParseInt(string(args[1]), 10, 64)
	if err != nil {
		return &protocol.NotIntegerErrReply{}
	}
	if secs > maxExpireSeconds || secs < -maxExpireSeconds {
		return protocol.MakeErrReply("ERR invalid expire time in 'expire' command")
	}
	deadline := time.Now().Add(time.Duration(secs) * time.Second)
	if !s.db.ExpireAt(key, deadline) {
		return protocol.MakeIntReply(0)
	}
	s.append(makeExpireAtCmd(key, deadline))
	return protocol.MakeIntReply(1)
}

// execExpireAt sets an absolute unix-seconds deadline. This is also
// the only TTL form the append-only file contains.
func execExpireAt(s *Server, args [][]byte) redis.Reply {
	key := string(args[0])
	ts, err := strconv.ParseInt(string(args[1]), 10, 64)
	if err != nil {
		return &protocol.NotIntegerErrReply{}
	}
	if !s.db.ExpireAt(key, time.Unix(ts, 0)) {
		return protocol.MakeIntReply(0)
	}
	s.append(utils.ToCmdLine3("expireat", args...))
	return protocol.MakeIntReply(1)
}

func execTTL(s *Server, args [][]byte) redis.Reply {
	return protocol.MakeIntReply(s.db.TTL(string(args[0])))
}

func execPersist(s *Server, args [][]byte) redis.Reply {
	key := string(args[0])
	if !s.db.Persist(key) {
		return protocol.MakeIntReply(0)
	}
	s.append(utils.ToCmdLine("persist", key))
	return protocol.MakeIntReply(1)
}

func execType(s *Server, args [][]byte) redis.Reply {
	return protocol.MakeStatusReply(s.db.TypeOf(string(args[0])))
}

func execDBSize(s *Server, args [][]byte) redis.Reply {
	return protocol.MakeIntReply(int64(s.db.Size()))
}

func execFlushDB(s *Server, args [][]byte) redis.Reply {
	s.db.Flush()
	s.append(utils.ToCmdLine("flushdb"))
	return protocol.MakeOkReply()
}

func init() {
	registerCommand("Del", execDel, -2, flagWrite)
	registerCommand("Exists", execExists, -2, flagReadOnly)
	registerCommand("Keys", execKeys, 2, flagReadOnly)
	registerCommand("Expire", execExpire, 3, flagWrite)
	registerCommand("ExpireAt", execExpireAt, 3, flagWrite)
	registerCommand("TTL", execTTL, 2, flagReadOnly)
	registerCommand("Persist", execPersist, 2, flagWrite)
	registerCommand("Type", execType, 2, flagReadOnly)
	registerCommand("DBSize", execDBSize, 1, flagReadOnly)
	registerCommand("FlushDB", execFlushDB, 1, flagWrite)
}
