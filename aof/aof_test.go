package aof

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendAndFold(t *testing.T) {
	dir := t.TempDir()
	log, err := Open(dir, "", false)
	assert.Nil(t, err)

	err = log.Append([][]byte{[]byte("set"), []byte("name"), []byte("ferris")})
	assert.Nil(t, err)
	err = log.Append([][]byte{[]byte("set"), []byte("greeting"), []byte("hello world")})
	assert.Nil(t, err)
	err = log.Append([][]byte{[]byte("del"), []byte("name")})
	assert.Nil(t, err)

	var records [][][]byte
	err = log.Fold(func(cmdLine [][]byte) error {
		records = append(records, cmdLine)
		return nil
	})
	assert.Nil(t, err)
	assert.Equal(t, 3, len(records))
	assert.Equal(t, [][]byte{[]byte("set"), []byte("name"), []byte("ferris")}, records[0])
	assert.Equal(t, []byte("hello world"), records[1][2])
	assert.Nil(t, log.Close())
}

func TestAppendSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	log, err := Open(dir, "", false)
	assert.Nil(t, err)
	err = log.Append([][]byte{[]byte("set"), []byte("k"), []byte("v1")})
	assert.Nil(t, err)
	assert.Nil(t, log.Close())

	log, err = Open(dir, "", false)
	assert.Nil(t, err)
	err = log.Append([][]byte{[]byte("set"), []byte("k"), []byte("v2")})
	assert.Nil(t, err)

	var records [][][]byte
	err = log.Fold(func(cmdLine [][]byte) error {
		records = append(records, cmdLine)
		return nil
	})
	assert.Nil(t, err)
	assert.Equal(t, 2, len(records))
	assert.Nil(t, log.Close())
}

func TestDirectoryLock(t *testing.T) {
	dir := t.TempDir()
	log, err := Open(dir, "", false)
	assert.Nil(t, err)
	defer log.Close()

	_, err = Open(dir, "", false)
	assert.Equal(t, ErrFileIsUsing, err)
}

func TestTruncatedTrailingRecord(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)
	err := os.WriteFile(path, []byte("set k v1\nset k v"), 0644)
	assert.Nil(t, err)

	log, err := Open(dir, "", false)
	assert.Nil(t, err)
	defer log.Close()

	var records [][][]byte
	err = log.Fold(func(cmdLine [][]byte) error {
		records = append(records, cmdLine)
		return nil
	})
	assert.Nil(t, err)
	assert.Equal(t, 1, len(records))

	// the half-written tail was cut off the file
	data, err := os.ReadFile(path)
	assert.Nil(t, err)
	assert.Equal(t, "set k v1\n", string(data))
	assert.Equal(t, int64(len("set k v1\n")), log.Size())
}

func TestCorruptTrailingRecord(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)
	err := os.WriteFile(path, []byte("set k v1\nset k \"broken\n"), 0644)
	assert.Nil(t, err)

	log, err := Open(dir, "", false)
	assert.Nil(t, err)
	defer log.Close()

	var records int
	err = log.Fold(func(cmdLine [][]byte) error {
		records++
		return nil
	})
	assert.Nil(t, err)
	assert.Equal(t, 1, records)

	data, err := os.ReadFile(path)
	assert.Nil(t, err)
	assert.Equal(t, "set k v1\n", string(data))
}

func TestCorruptRecordMidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)
	err := os.WriteFile(path, []byte("set k v1\nset k \"broken\nset k v2\n"), 0644)
	assert.Nil(t, err)

	log, err := Open(dir, "", false)
	assert.Nil(t, err)
	defer log.Close()

	err = log.Fold(func(cmdLine [][]byte) error { return nil })
	assert.True(t, errors.Is(err, ErrCorruptRecord))
}

func TestQuotedRecordRoundTrip(t *testing.T) {
	dir := t.TempDir()
	log, err := Open(dir, "", false)
	assert.Nil(t, err)
	defer log.Close()

	value := []byte("spaces, \"quotes\" and\nnewlines")
	err = log.Append([][]byte{[]byte("set"), []byte("k"), value})
	assert.Nil(t, err)

	var got []byte
	err = log.Fold(func(cmdLine [][]byte) error {
		got = cmdLine[2]
		return nil
	})
	assert.Nil(t, err)
	assert.Equal(t, value, got)
}
