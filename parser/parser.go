package parser

import (
	"bufio"
	"errors"
	"io"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/hdt3213/godis/lib/logger"
)

// Payload carries one parsed request line or a read error.
type Payload struct {
	Args [][]byte
	Err  error
}

// maxLineSize bounds a single request line so a misbehaving client
// cannot grow the read buffer without limit.
const maxLineSize = 1 << 20

var ErrLineTooLong = errors.New("protocol error: request line too long")

// ParseStream reads the line protocol from the connection and sends
// one Payload per request through the returned channel. The channel is
// closed after the first read error (EOF included).
func ParseStream(reader io.Reader) <-chan *Payload {
	ch := make(chan *Payload)
	go parse0(reader, ch)
	return ch
}

func parse0(rawReader io.Reader, ch chan<- *Payload) {
	// 避免单条坏请求把整个读协程带崩
	defer func() {
		if err := recover(); err != nil {
			logger.Error(err, string(debug.Stack()))
		}
	}()
	reader := bufio.NewReader(rawReader)
	for {
		line, err := readLine(reader)
		if err != nil {
			ch <- &Payload{Err: err}
			close(ch)
			return
		}
		line = strings.TrimRight(line, "\r\n")
		// 忽略空行
		if len(line) == 0 {
			continue
		}
		args, err := SplitArgs(line)
		if err != nil {
			// 单条请求的语法错误不终止连接
			ch <- &Payload{Err: err}
			continue
		}
		if len(args) == 0 {
			continue
		}
		ch <- &Payload{Args: args}
	}
}

// readLine reads one newline-terminated line, enforcing maxLineSize
// while reading. A client streaming bytes without a newline fails with
// ErrLineTooLong as soon as the cap is crossed instead of growing the
// buffer until the line completes.
func readLine(reader *bufio.Reader) (string, error) {
	var b strings.Builder
	for {
		chunk, err := reader.ReadSlice('\n')
		b.Write(chunk)
		if b.Len() > maxLineSize {
			return "", ErrLineTooLong
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		if err != nil {
			return "", err
		}
		return b.String(), nil
	}
}

/*
One request is one line:

	COMMAND arg1 arg2 ...

Arguments are space separated. An argument containing spaces, quotes
or unprintable bytes is written as a Go-quoted string ("a b\n"); a
single-quoted form 'a b' is accepted for convenience, without escape
processing. The same shape is used for append-only-file records, so a
record is always exactly one line.
*/

// SplitArgs tokenizes one request line.
func SplitArgs(line string) ([][]byte, error) {
	var args [][]byte
	i := 0
	for i < len(line) {
		// skip blanks between tokens
		if line[i] == ' ' || line[i] == '\t' {
			i++
			continue
		}
		switch line[i] {
		case '"':
			end := quotedEnd(line, i)
			if end < 0 {
				return nil, errors.New("protocol error: unbalanced quotes in request")
			}
			token, err := strconv.Unquote(line[i : end+1])
			if err != nil {
				return nil, errors.New("protocol error: invalid quoted string")
			}
			i = end + 1
			if i < len(line) && line[i] != ' ' && line[i] != '\t' {
				return nil, errors.New("protocol error: unexpected character after closing quote")
			}
			args = append(args, []byte(token))
		case '\'':
			end := strings.IndexByte(line[i+1:], '\'')
			if end < 0 {
				return nil, errors.New("protocol error: unbalanced quotes in request")
			}
			args = append(args, []byte(line[i+1:i+1+end]))
			i += end + 2
			if i < len(line) && line[i] != ' ' && line[i] != '\t' {
				return nil, errors.New("protocol error: unexpected character after closing quote")
			}
		default:
			end := i
			for end < len(line) && line[end] != ' ' && line[end] != '\t' {
				end++
			}
			args = append(args, []byte(line[i:end]))
			i = end
		}
	}
	return args, nil
}

// quotedEnd finds the closing double quote of the token starting at
// start, honoring backslash escapes. Returns -1 when unterminated.
func quotedEnd(line string, start int) int {
	for i := start + 1; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}

// JoinArgs renders args as one request line, quoting any token the
// plain form could not carry back through SplitArgs.
func JoinArgs(args [][]byte) string {
	var b strings.Builder
	for i, arg := range args {
		if i > 0 {
			b.WriteByte(' ')
		}
		if needsQuoting(arg) {
			b.WriteString(strconv.Quote(string(arg)))
		} else {
			b.Write(arg)
		}
	}
	return b.String()
}

func needsQuoting(arg []byte) bool {
	if len(arg) == 0 {
		return true
	}
	for _, c := range arg {
		if c == ' ' || c == '\t' || c == '"' || c == '\'' || c == '\\' {
			return true
		}
		if c < 0x20 || c == 0x7f {
			return true
		}
	}
	return false
}
