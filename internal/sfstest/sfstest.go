// Package sfstest provides test-only helpers for building *disk.Disk
// fixtures backed by in-memory buffers instead of real files.
package sfstest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/bytesextra"

	"github.com/go-simplefs/simplefs/disk"
)

// NewMemDisk returns a *disk.Disk backed by an in-memory, zero-filled
// buffer of exactly blocks*disk.BlockSize bytes, so tests can mount and
// format an image without touching the real filesystem.
func NewMemDisk(t *testing.T, blocks uint) *disk.Disk {
	t.Helper()

	buf := make([]byte, blocks*disk.BlockSize)
	require.Equal(t, blocks*disk.BlockSize, uint(len(buf)), "buffer sized wrong")

	stream := bytesextra.NewReadWriteSeeker(buf)
	return disk.NewFromStream(stream, blocks)
}
