package protocol

import (
	"bytes"
	"strconv"

	"github.com/ibrahmsql/hexagondb/interface/redis"
)

var (
	// CRLF is the line separator of the reply protocol
	CRLF = "\r\n"
)

// BulkReply carries one raw value line, or (nil) for an absent value.
type BulkReply struct {
	Arg []byte
}

func MakeBulkReply(arg []byte) *BulkReply {
	return &BulkReply{Arg: arg}
}

func (r *BulkReply) ToBytes() []byte {
	if r.Arg == nil {
		return nullBulkBytes
	}
	return append(append([]byte{}, r.Arg...), CRLF...)
}

// MultiBulkReply is a listing: one item per line, (nil) for an absent
// item, (empty) when there are no items at all so the client always
// receives at least one line.
type MultiBulkReply struct {
	Args [][]byte
}

func MakeMultiBulkReply(args [][]byte) *MultiBulkReply {
	return &MultiBulkReply{Args: args}
}

func (r *MultiBulkReply) ToBytes() []byte {
	if len(r.Args) == 0 {
		return emptyMultiBulkBytes
	}
	var buf bytes.Buffer
	for _, arg := range r.Args {
		if arg == nil {
			buf.WriteString("(nil)")
		} else {
			buf.Write(arg)
		}
		buf.WriteString(CRLF)
	}
	return buf.Bytes()
}

// StatusReply 状态回复：以 "+" 开始，如："+OK\r\n"
type StatusReply struct {
	Status string
}

func MakeStatusReply(status string) *StatusReply {
	return &StatusReply{Status: status}
}

func (r *StatusReply) ToBytes() []byte {
	return []byte("+" + r.Status + CRLF)
}

// IntReply 整数：以 ":" 开始，如：":1\r\n"
type IntReply struct {
	Code int64
}

func MakeIntReply(code int64) *IntReply {
	return &IntReply{Code: code}
}

func (r *IntReply) ToBytes() []byte {
	return []byte(":" + strconv.FormatInt(r.Code, 10) + CRLF)
}

// ErrorReply is an error and a reply at the same time, so executors
// can return one value either way.
type ErrorReply interface {
	Error() string
	ToBytes() []byte
}

// StandardErrReply 标准错误回复，例如："ERR unknown command\r\n"
type StandardErrReply struct {
	Status string
}

func MakeErrReply(status string) *StandardErrReply {
	return &StandardErrReply{
		Status: status,
	}
}

func (r *StandardErrReply) ToBytes() []byte {
	return []byte(r.Status + CRLF)
}

func (r *StandardErrReply) Error() string {
	return r.Status
}

// IsErrorReply returns true if the given reply is an error
func IsErrorReply(reply redis.Reply) bool {
	_, ok := reply.(ErrorReply)
	return ok
}
