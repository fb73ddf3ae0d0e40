package database

import (
	"github.com/hdt3213/godis/lib/utils"

	"github.com/ibrahmsql/hexagondb/interface/redis"
	"github.com/ibrahmsql/hexagondb/protocol"
)

func execHSet(s *Server, args [][]byte) redis.Reply {
	key, field := string(args[0]), string(args[1])
	created, err := s.db.HSet(key, field, args[2])
	if err != nil {
		return errorReply(err)
	}
	s.append(utils.ToCmdLine3("hset", args...))
	if created {
		return protocol.MakeIntReply(1)
	}
	return protocol.MakeIntReply(0)
}

func execHGet(s *Server, args [][]byte) redis.Reply {
	val, err := s.db.HGet(string(args[0]), string(args[1]))
	if err != nil {
		return errorReply(err)
	}
	if val == nil {
		return protocol.MakeNullBulkReply()
	}
	return protocol.MakeBulkReply(val)
}

// execHGetAll emits field and value on alternating lines, fields in
// lexicographic order.
func execHGetAll(s *Server, args [][]byte) redis.Reply {
	fields, vals, err := s.db.HGetAll(string(args[0]))
	if err != nil {
		return errorReply(err)
	}
	if len(fields) == 0 {
		return protocol.MakeEmptyMultiBulkReply()
	}
	lines := make([][]byte, 0, len(fields)*2)
	for i, field := range fields {
		lines = append(lines, []byte(field), vals[i])
	}
	return protocol.MakeMultiBulkReply(lines)
}

func execHKeys(s *Server, args [][]byte) redis.Reply {
	fields, _, err := s.db.HGetAll(string(args[0]))
	if err != nil {
		return errorReply(err)
	}
	if len(fields) == 0 {
		return protocol.MakeEmptyMultiBulkReply()
	}
	lines := make([][]byte, len(fields))
	for i, field := range fields {
		lines[i] = []byte(field)
	}
	return protocol.MakeMultiBulkReply(lines)
}

func execHVals(s *Server, args [][]byte) redis.Reply {
	_, vals, err := s.db.HGetAll(string(args[0]))
	if err != nil {
		return errorReply(err)
	}
	if len(vals) == 0 {
		return protocol.MakeEmptyMultiBulkReply()
	}
	return protocol.MakeMultiBulkReply(vals)
}

func execHDel(s *Server, args [][]byte) redis.Reply {
	key := string(args[0])
	fields := make([]string, 0, len(args)-1)
	for _, raw := range args[1:] {
		fields = append(fields, string(raw))
	}
	removed, err := s.db.HDel(key, fields...)
	if err != nil {
		return errorReply(err)
	}
	if removed > 0 {
		s.append(utils.ToCmdLine3("hdel", args...))
	}
	return protocol.MakeIntReply(int64(removed))
}

func execHLen(s *Server, args [][]byte) redis.Reply {
	length, err := s.db.HLen(string(args[0]))
	if err != nil {
		return errorReply(err)
	}
	return protocol.MakeIntReply(int64(length))
}

func execHExists(s *Server, args [][]byte) redis.Reply {
	exists, err := s.db.HExists(string(args[0]), string(args[1]))
	if err != nil {
		return errorReply(err)
	}
	if exists {
		return protocol.MakeIntReply(1)
	}
	return protocol.MakeIntReply(0)
}

func init() {
	registerCommand("HSet", execHSet, 4, flagWrite)
	registerCommand("HGet", execHGet, 3, flagReadOnly)
	registerCommand("HGetAll", execHGetAll, 2, flagReadOnly)
	registerCommand("HKeys", execHKeys, 2, flagReadOnly)
	registerCommand("HVals", execHVals, 2, flagReadOnly)
	registerCommand("HDel", execHDel, -3, flagWrite)
	registerCommand("HLen", execHLen, 2, flagReadOnly)
	registerCommand("HExists", execHExists, 3, flagReadOnly)
}
