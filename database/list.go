package database

import (
	"strconv"

	"github.com/hdt3213/godis/lib/utils"

	"github.com/ibrahmsql/hexagondb/interface/redis"
	"github.com/ibrahmsql/hexagondb/protocol"
)

func execLPush(s *Server, args [][]byte) redis.Reply {
	key := string(args[0])
	length, err := s.db.LPush(key, args[1:]...)
	if err != nil {
		return errorReply(err)
	}
	s.append(utils.ToCmdLine3("lpush", args...))
	return protocol.MakeIntReply(int64(length))
}

func execRPush(s *Server, args [][]byte) redis.Reply {
	key := string(args[0])
	length, err := s.db.RPush(key, args[1:]...)
	if err != nil {
		return errorReply(err)
	}
	s.append(utils.ToCmdLine3("rpush", args...))
	return protocol.MakeIntReply(int64(length))
}

func execLPop(s *Server, args [][]byte) redis.Reply {
	key := string(args[0])
	val, err := s.db.LPop(key)
	if err != nil {
		return errorReply(err)
	}
	if val == nil {
		return protocol.MakeNullBulkReply()
	}
	s.append(utils.ToCmdLine("lpop", key))
	return protocol.MakeBulkReply(val)
}

func execRPop(s *Server, args [][]byte) redis.Reply {
	key := string(args[0])
	val, err := s.db.RPop(key)
	if err != nil {
		return errorReply(err)
	}
	if val == nil {
		return protocol.MakeNullBulkReply()
	}
	s.append(utils.ToCmdLine("rpop", key))
	return protocol.MakeBulkReply(val)
}

func execLLen(s *Server, args [][]byte) redis.Reply {
	length, err := s.db.LLen(string(args[0]))
	if err != nil {
		return errorReply(err)
	}
	return protocol.MakeIntReply(int64(length))
}

// execLRange returns the inclusive slice [start, stop]. Negative
// indexes count from the tail, redis style.
func execLRange(s *Server, args [][]byte) redis.Reply {
	start, err := strconv.ParseInt(string(args[1]), 10, 64)
	if err != nil {
		return &protocol.NotIntegerErrReply{}
	}
	stop, err := strconv.ParseInt(string(args[2]), 10, 64)
	if err != nil {
		return &protocol.NotIntegerErrReply{}
	}
	vals, err2 := s.db.LRange(string(args[0]), start, stop)
	if err2 != nil {
		return errorReply(err2)
	}
	if len(vals) == 0 {
		return protocol.MakeEmptyMultiBulkReply()
	}
	return protocol.MakeMultiBulkReply(vals)
}

func init() {
	registerCommand("LPush", execLPush, -3, flagWrite)
	registerCommand("RPush", execRPush, -3, flagWrite)
	registerCommand("LPop", execLPop, 2, flagWrite)
	registerCommand("RPop", execRPop, 2, flagWrite)
	registerCommand("LLen", execLLen, 2, flagReadOnly)
	registerCommand("LRange", execLRange, 4, flagReadOnly)
}
