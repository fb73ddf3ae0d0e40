package parser

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitArgsPlain(t *testing.T) {
	args, err := SplitArgs("SET name ferris")
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("SET"), []byte("name"), []byte("ferris")}, args)

	// repeated blanks between tokens are not arguments
	args, err = SplitArgs("  GET \t key  ")
	assert.Nil(t, err)
	assert.Equal(t, [][]byte{[]byte("GET"), []byte("key")}, args)
}

func TestSplitArgsQuoted(t *testing.T) {
	args, err := SplitArgs(`SET greeting "hello world"`)
	assert.Nil(t, err)
	assert.Equal(t, []byte("hello world"), args[2])

	args, err = SplitArgs(`SET k "line\nbreak"`)
	assert.Nil(t, err)
	assert.Equal(t, []byte("line\nbreak"), args[2])

	// single quotes carry text verbatim, no escape processing
	args, err = SplitArgs(`SET k 'a \n b'`)
	assert.Nil(t, err)
	assert.Equal(t, []byte(`a \n b`), args[2])
}

func TestSplitArgsErrors(t *testing.T) {
	_, err := SplitArgs(`SET k "unterminated`)
	assert.NotNil(t, err)

	_, err = SplitArgs(`SET k 'unterminated`)
	assert.NotNil(t, err)

	_, err = SplitArgs(`SET k "glued"tail`)
	assert.NotNil(t, err)
}

func TestJoinArgsRoundTrip(t *testing.T) {
	cases := [][][]byte{
		{[]byte("SET"), []byte("name"), []byte("ferris")},
		{[]byte("SET"), []byte("k"), []byte("hello world")},
		{[]byte("SET"), []byte("k"), []byte("")},
		{[]byte("SET"), []byte("k"), []byte(`quote " inside`)},
		{[]byte("SET"), []byte("k"), []byte("tab\tand\nnewline")},
		{[]byte("SET"), []byte("k"), []byte(`back\slash`)},
	}
	for _, args := range cases {
		line := JoinArgs(args)
		got, err := SplitArgs(line)
		assert.Nil(t, err)
		assert.Equal(t, args, got)
	}
}

func TestParseStream(t *testing.T) {
	input := "SET name ferris\r\n\r\nGET name\n"
	ch := ParseStream(bytes.NewBufferString(input))

	payload := <-ch
	assert.Nil(t, payload.Err)
	assert.Equal(t, [][]byte{[]byte("SET"), []byte("name"), []byte("ferris")}, payload.Args)

	// the blank line is skipped
	payload = <-ch
	assert.Nil(t, payload.Err)
	assert.Equal(t, [][]byte{[]byte("GET"), []byte("name")}, payload.Args)

	payload = <-ch
	assert.Equal(t, io.EOF, payload.Err)

	_, ok := <-ch
	assert.False(t, ok)
}

func TestParseStreamLineTooLong(t *testing.T) {
	// an endless stream of bytes with no newline must fail at the line
	// cap instead of buffering until the sender decides to stop
	var input bytes.Buffer
	input.WriteString("PING\n")
	input.Write(bytes.Repeat([]byte{'a'}, maxLineSize+1))
	ch := ParseStream(&input)

	payload := <-ch
	assert.Nil(t, payload.Err)
	assert.Equal(t, [][]byte{[]byte("PING")}, payload.Args)

	payload = <-ch
	assert.Equal(t, ErrLineTooLong, payload.Err)

	_, ok := <-ch
	assert.False(t, ok)
}

func TestParseStreamLongLineWithinCap(t *testing.T) {
	// a legal line larger than the bufio buffer still parses whole
	value := bytes.Repeat([]byte{'v'}, 64*1024)
	var input bytes.Buffer
	input.WriteString("SET k ")
	input.Write(value)
	input.WriteString("\n")
	ch := ParseStream(&input)

	payload := <-ch
	assert.Nil(t, payload.Err)
	assert.Equal(t, [][]byte{[]byte("SET"), []byte("k"), value}, payload.Args)
}

func TestParseStreamSyntaxErrorKeepsStream(t *testing.T) {
	input := "SET k \"bad\nPING\n"
	ch := ParseStream(bytes.NewBufferString(input))

	payload := <-ch
	assert.NotNil(t, payload.Err)

	// the connection survives a malformed request
	payload = <-ch
	assert.Nil(t, payload.Err)
	assert.Equal(t, [][]byte{[]byte("PING")}, payload.Args)

	payload = <-ch
	assert.Equal(t, io.EOF, payload.Err)
}
