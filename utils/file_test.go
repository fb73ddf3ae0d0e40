package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirSize(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "a"), []byte("12345"), 0644)
	assert.Nil(t, err)
	err = os.MkdirAll(filepath.Join(dir, "sub"), 0755)
	assert.Nil(t, err)
	err = os.WriteFile(filepath.Join(dir, "sub", "b"), []byte("123"), 0644)
	assert.Nil(t, err)

	size, err := DirSize(dir)
	assert.Nil(t, err)
	assert.Equal(t, int64(8), size)
}

func TestAvailableDiskSize(t *testing.T) {
	free, err := AvailableDiskSize(t.TempDir())
	assert.Nil(t, err)
	assert.True(t, free > 0)
}
