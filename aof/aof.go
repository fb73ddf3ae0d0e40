// Package aof implements the append-only durability log: one text
// line per committed write command, replayed front-to-back at startup.
// The file only ever grows; there is no rewrite or compaction, an
// operator restarts the process to shrink it.
package aof

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/hdt3213/godis/lib/logger"

	"github.com/ibrahmsql/hexagondb/parser"
)

const (
	fileLockName = "flock"

	// DefaultFileName is used when the config names no file.
	DefaultFileName = "hexagondb.aof"
)

var (
	// ErrCorruptRecord marks a record in the middle of the file that
	// cannot be parsed. This is fatal at startup: the log no longer
	// reflects a prefix of history, so replaying past it would
	// fabricate state.
	ErrCorruptRecord = errors.New("aof: corrupt record")

	// ErrFileIsUsing means another process holds the data directory.
	ErrFileIsUsing = errors.New("aof: data directory is used by another process")
)

// Log owns the append cursor of the durability file. Appends happen
// inside the keyspace critical section, so the Log itself needs no
// locking; replay runs once, before any connection is accepted.
type Log struct {
	path       string
	file       *os.File
	fileLock   *flock.Flock
	syncWrites bool
	size       int64
}

// Open creates or opens the append-only file under dir, taking an
// exclusive file lock on the directory so two server processes cannot
// interleave appends.
func Open(dir, name string, syncWrites bool) (*Log, error) {
	if name == "" {
		name = DefaultFileName
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, err
	}
	fileLock := flock.New(filepath.Join(dir, fileLockName))
	hold, err := fileLock.TryLock()
	if err != nil {
		return nil, err
	}
	if !hold {
		return nil, ErrFileIsUsing
	}

	path := filepath.Join(dir, name)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0644)
	if err != nil {
		_ = fileLock.Unlock()
		return nil, err
	}
	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		_ = fileLock.Unlock()
		return nil, err
	}
	return &Log{
		path:       path,
		file:       file,
		fileLock:   fileLock,
		syncWrites: syncWrites,
		size:       stat.Size(),
	}, nil
}

// Append writes one committed command as a single terminated line.
// The caller appends only after the mutation is applied and only when
// state actually changed.
func (l *Log) Append(cmdLine [][]byte) error {
	record := parser.JoinArgs(cmdLine) + "\n"
	n, err := l.file.WriteString(record)
	l.size += int64(n)
	if err != nil {
		return err
	}
	if l.syncWrites {
		return l.file.Sync()
	}
	return nil
}

// Fold reads the log front-to-back and hands every record to fn in
// append order. A trailing record that is truncated (no terminator) or
// unparseable is discarded and the file is cut back to the last good
// offset; the same damage in the middle of the file returns
// ErrCorruptRecord.
func (l *Log) Fold(fn func(cmdLine [][]byte) error) error {
	if _, err := l.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	defer func() {
		// 追加模式下写偏移由内核维护，读完回到文件末尾即可
		_, _ = l.file.Seek(0, io.SeekEnd)
	}()

	reader := bufio.NewReader(l.file)
	var offset int64
	for {
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			if len(line) > 0 {
				// 尾部没有换行符：一条写了一半的记录，丢弃
				logger.Warn(fmt.Sprintf("aof: discarding truncated trailing record (%d bytes)", len(line)))
				return l.truncate(offset)
			}
			return nil
		}
		if err != nil {
			return err
		}
		record := strings.TrimRight(line, "\r\n")
		next := offset + int64(len(line))
		if record == "" {
			offset = next
			continue
		}
		cmdLine, err := parser.SplitArgs(record)
		if err != nil || len(cmdLine) == 0 {
			if l.hasDataAfter(reader) {
				return fmt.Errorf("%w at offset %d", ErrCorruptRecord, offset)
			}
			logger.Warn(fmt.Sprintf("aof: discarding corrupt trailing record at offset %d", offset))
			return l.truncate(offset)
		}
		if err := fn(cmdLine); err != nil {
			return err
		}
		offset = next
	}
}

// hasDataAfter reports whether any byte follows the current read
// position, distinguishing a corrupt trailing record from one in the
// middle of the file.
func (l *Log) hasDataAfter(reader *bufio.Reader) bool {
	_, err := reader.ReadByte()
	if err == nil {
		_ = reader.UnreadByte()
		return true
	}
	return false
}

func (l *Log) truncate(offset int64) error {
	if err := l.file.Truncate(offset); err != nil {
		return err
	}
	l.size = offset
	return nil
}

// Size returns the current file size in bytes.
func (l *Log) Size() int64 {
	return l.size
}

// Sync flushes the file to stable storage.
func (l *Log) Sync() error {
	return l.file.Sync()
}

// Close syncs and closes the file and releases the directory lock.
func (l *Log) Close() error {
	if err := l.file.Sync(); err != nil {
		logger.Warn("aof: sync on close:", err)
	}
	if err := l.file.Close(); err != nil {
		return err
	}
	return l.fileLock.Unlock()
}
