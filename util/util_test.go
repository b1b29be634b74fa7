package util

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(5, Clamp(5, 0, 10))
	assert.Equal(0, Clamp(-3, 0, 10))
	assert.Equal(10, Clamp(42, 0, 10))
}

func TestSortedKeys(t *testing.T) {
	m := map[int]string{3: "c", 1: "a", 2: "b"}
	assert.Equal(t, []int{1, 2, 3}, SortedKeys(m))
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.mid")
	err := WriteFileAtomic(path, func(w io.Writer) error {
		_, err := w.Write([]byte("hello"))
		return err
	})

	assert := assert.New(t)
	assert.NoError(err)
	data, err := os.ReadFile(path)
	assert.NoError(err)
	assert.Equal("hello", string(data))
}

func TestWriteFileAtomicLeavesNothingOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.mid")
	err := WriteFileAtomic(path, func(w io.Writer) error {
		return errors.New("render failed")
	})

	assert := assert.New(t)
	assert.Error(err)
	_, statErr := os.Stat(path)
	assert.True(os.IsNotExist(statErr))

	entries, _ := os.ReadDir(dir)
	assert.Empty(entries, "no temp files left behind")
}
