package database

import (
	"github.com/hdt3213/godis/lib/utils"

	"github.com/ibrahmsql/hexagondb/interface/redis"
	"github.com/ibrahmsql/hexagondb/protocol"
)

func execSAdd(s *Server, args [][]byte) redis.Reply {
	key := string(args[0])
	members := make([]string, 0, len(args)-1)
	for _, raw := range args[1:] {
		members = append(members, string(raw))
	}
	added, err := s.db.SAdd(key, members...)
	if err != nil {
		return errorReply(err)
	}
	if added > 0 {
		s.append(utils.ToCmdLine3("sadd", args...))
	}
	return protocol.MakeIntReply(int64(added))
}

func execSRem(s *Server, args [][]byte) redis.Reply {
	key := string(args[0])
	members := make([]string, 0, len(args)-1)
	for _, raw := range args[1:] {
		members = append(members, string(raw))
	}
	removed, err := s.db.SRem(key, members...)
	if err != nil {
		return errorReply(err)
	}
	if removed > 0 {
		s.append(utils.ToCmdLine3("srem", args...))
	}
	return protocol.MakeIntReply(int64(removed))
}

// execSMembers lists members in lexicographic order.
func execSMembers(s *Server, args [][]byte) redis.Reply {
	members, err := s.db.SMembers(string(args[0]))
	if err != nil {
		return errorReply(err)
	}
	if len(members) == 0 {
		return protocol.MakeEmptyMultiBulkReply()
	}
	lines := make([][]byte, len(members))
	for i, m := range members {
		lines[i] = []byte(m)
	}
	return protocol.MakeMultiBulkReply(lines)
}

func execSIsMember(s *Server, args [][]byte) redis.Reply {
	exists, err := s.db.SIsMember(string(args[0]), string(args[1]))
	if err != nil {
		return errorReply(err)
	}
	if exists {
		return protocol.MakeIntReply(1)
	}
	return protocol.MakeIntReply(0)
}

func execSCard(s *Server, args [][]byte) redis.Reply {
	card, err := s.db.SCard(string(args[0]))
	if err != nil {
		return errorReply(err)
	}
	return protocol.MakeIntReply(int64(card))
}

func init() {
	registerCommand("SAdd", execSAdd, -3, flagWrite)
	registerCommand("SRem", execSRem, -3, flagWrite)
	registerCommand("SMembers", execSMembers, 2, flagReadOnly)
	registerCommand("SIsMember", execSIsMember, 3, flagReadOnly)
	registerCommand("SCard", execSCard, 2, flagReadOnly)
}
