package database

import (
	"github.com/ibrahmsql/hexagondb/interface/redis"
	"github.com/ibrahmsql/hexagondb/protocol"
)

func execPing(s *Server, args [][]byte) redis.Reply {
	if len(args) == 0 {
		return protocol.MakePongReply()
	}
	if len(args) == 1 {
		return protocol.MakeBulkReply(args[0])
	}
	return protocol.MakeArgNumErrReply("ping")
}

func execEcho(s *Server, args [][]byte) redis.Reply {
	return protocol.MakeBulkReply(args[0])
}

func execInfo(s *Server, args [][]byte) redis.Reply {
	return protocol.MakeBulkReply([]byte(s.infoText()))
}

func init() {
	registerCommand("Ping", execPing, -1, flagReadOnly)
	registerCommand("Echo", execEcho, 2, flagReadOnly)
	registerCommand("Info", execInfo, 1, flagReadOnly|flagLockFree)
}
