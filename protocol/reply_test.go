package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusReplies(t *testing.T) {
	assert.Equal(t, "+OK\r\n", string(MakeOkReply().ToBytes()))
	assert.Equal(t, "+PONG\r\n", string(MakePongReply().ToBytes()))
	assert.Equal(t, "+string\r\n", string(MakeStatusReply("string").ToBytes()))
}

func TestIntReply(t *testing.T) {
	assert.Equal(t, ":0\r\n", string(MakeIntReply(0).ToBytes()))
	assert.Equal(t, ":-2\r\n", string(MakeIntReply(-2).ToBytes()))
}

func TestBulkReply(t *testing.T) {
	assert.Equal(t, "ferris\r\n", string(MakeBulkReply([]byte("ferris")).ToBytes()))
	assert.Equal(t, "(nil)\r\n", string(MakeBulkReply(nil).ToBytes()))
	assert.Equal(t, "(nil)\r\n", string(MakeNullBulkReply().ToBytes()))
}

func TestMultiBulkReply(t *testing.T) {
	reply := MakeMultiBulkReply([][]byte{[]byte("a"), nil, []byte("c")})
	assert.Equal(t, "a\r\n(nil)\r\nc\r\n", string(reply.ToBytes()))
	assert.Equal(t, "(empty)\r\n", string(MakeEmptyMultiBulkReply().ToBytes()))
}

func TestErrorReplies(t *testing.T) {
	reply := MakeErrReply("ERR invalid password (1/3)")
	assert.Equal(t, "ERR invalid password (1/3)\r\n", string(reply.ToBytes()))
	assert.Equal(t, "ERR invalid password (1/3)", reply.Error())

	assert.Equal(t, "ERR unknown\r\n", string((&UnknownErrReply{}).ToBytes()))
	assert.Equal(t,
		"ERR wrong number of arguments for 'get' command\r\n",
		string(MakeArgNumErrReply("get").ToBytes()))
	assert.Equal(t,
		"ERR WRONGTYPE Operation against a key holding the wrong kind of value\r\n",
		string((&WrongTypeErrReply{}).ToBytes()))
	assert.Equal(t,
		"ERR value is not an integer or out of range\r\n",
		string((&NotIntegerErrReply{}).ToBytes()))
	assert.Equal(t, "ERR syntax error\r\n", string(MakeSyntaxErrReply().ToBytes()))
	assert.Equal(t, "ERR authentication required\r\n", string((&AuthRequiredErrReply{}).ToBytes()))
}

func TestIsErrorReply(t *testing.T) {
	assert.True(t, IsErrorReply(MakeErrReply("ERR boom")))
	assert.True(t, IsErrorReply(&WrongTypeErrReply{}))
	assert.False(t, IsErrorReply(MakeOkReply()))
	assert.False(t, IsErrorReply(MakeIntReply(1)))
}
