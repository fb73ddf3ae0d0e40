package database

import (
	"strconv"
	"strings"

	"github.com/hdt3213/godis/lib/utils"

	"github.com/ibrahmsql/hexagondb/interface/redis"
	"github.com/ibrahmsql/hexagondb/protocol"
)

func parseScore(raw []byte) (float64, redis.Reply) {
	score, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return 0, protocol.MakeErrReply("ERR value is not a valid float")
	}
	return score, nil
}

// formatScore renders a score the shortest way that round-trips, so
// integral scores print without a fractional part.
func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// execZAdd handles ZADD key score member [score member ...].
func execZAdd(s *Server, args [][]byte) redis.Reply {
	if len(args)%2 != 1 {
		return protocol.MakeSyntaxErrReply()
	}
	key := string(args[0])
	// 先把所有分数解析完, 避免中途出错留下半套成员
	scores := make([]float64, 0, (len(args)-1)/2)
	for i := 1; i < len(args); i += 2 {
		score, errReply := parseScore(args[i])
		if errReply != nil {
			return errReply
		}
		scores = append(scores, score)
	}
	var added int64
	changed := false
	for i := 1; i < len(args); i += 2 {
		created, updated, err := s.db.ZAdd(key, scores[(i-1)/2], string(args[i+1]))
		if err != nil {
			return errorReply(err)
		}
		if created {
			added++
		}
		if created || updated {
			changed = true
		}
	}
	if changed {
		s.append(utils.ToCmdLine3("zadd", args...))
	}
	return protocol.MakeIntReply(added)
}

func execZRem(s *Server, args [][]byte) redis.Reply {
	key := string(args[0])
	members := make([]string, 0, len(args)-1)
	for _, raw := range args[1:] {
		members = append(members, string(raw))
	}
	removed, err := s.db.ZRem(key, members...)
	if err != nil {
		return errorReply(err)
	}
	if removed > 0 {
		s.append(utils.ToCmdLine3("zrem", args...))
	}
	return protocol.MakeIntReply(int64(removed))
}

func execZScore(s *Server, args [][]byte) redis.Reply {
	score, exists, err := s.db.ZScore(string(args[0]), string(args[1]))
	if err != nil {
		return errorReply(err)
	}
	if !exists {
		return protocol.MakeNullBulkReply()
	}
	return protocol.MakeBulkReply([]byte(formatScore(score)))
}

// execZRange handles ZRANGE key start stop [WITHSCORES]. Members come
// back ordered by (score, member) ascending; with WITHSCORES each
// member line is followed by its score line.
func execZRange(s *Server, args [][]byte) redis.Reply {
	withScores := false
	switch len(args) {
	case 3:
	case 4:
		if !strings.EqualFold(string(args[3]), "withscores") {
			return protocol.MakeSyntaxErrReply()
		}
		withScores = true
	default:
		return protocol.MakeSyntaxErrReply()
	}
	start, err := strconv.ParseInt(string(args[1]), 10, 64)
	if err != nil {
		return &protocol.NotIntegerErrReply{}
	}
	stop, err := strconv.ParseInt(string(args[2]), 10, 64)
	if err != nil {
		return &protocol.NotIntegerErrReply{}
	}
	key := string(args[0])
	members, err2 := s.db.ZRange(key, start, stop)
	if err2 != nil {
		return errorReply(err2)
	}
	if len(members) == 0 {
		return protocol.MakeEmptyMultiBulkReply()
	}
	var lines [][]byte
	for _, m := range members {
		lines = append(lines, []byte(m))
		if withScores {
			score, _, _ := s.db.ZScore(key, m)
			lines = append(lines, []byte(formatScore(score)))
		}
	}
	return protocol.MakeMultiBulkReply(lines)
}

func execZCard(s *Server, args [][]byte) redis.Reply {
	card, err := s.db.ZCard(string(args[0]))
	if err != nil {
		return errorReply(err)
	}
	return protocol.MakeIntReply(int64(card))
}

// execZCount counts members with min <= score <= max.
func execZCount(s *Server, args [][]byte) redis.Reply {
	min, errReply := parseScore(args[1])
	if errReply != nil {
		return errReply
	}
	max, errReply := parseScore(args[2])
	if errReply != nil {
		return errReply
	}
	count, err := s.db.ZCount(string(args[0]), min, max)
	if err != nil {
		return errorReply(err)
	}
	return protocol.MakeIntReply(int64(count))
}

func init() {
	registerCommand("ZAdd", execZAdd, -4, flagWrite)
	registerCommand("ZRem", execZRem, -3, flagWrite)
	registerCommand("ZScore", execZScore, 3, flagReadOnly)
	registerCommand("ZRange", execZRange, -4, flagReadOnly)
	registerCommand("ZCard", execZCard, 2, flagReadOnly)
	registerCommand("ZCount", execZCount, 4, flagReadOnly)
}
