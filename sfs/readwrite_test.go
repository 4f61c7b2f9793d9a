package sfs_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-simplefs/simplefs/sfs"
)

func TestWriteThenReadRoundTrips(t *testing.T) {
	fs := mountFresh(t, 100)

	n, err := fs.Create()
	require.NoError(t, err)

	want := []byte("hello, sfs")
	written, err := fs.Write(n, want, uint32(len(want)), 0)
	require.NoError(t, err)
	assert.EqualValues(t, len(want), written)

	size, err := fs.Stat(n)
	require.NoError(t, err)
	assert.EqualValues(t, len(want), size)

	got := make([]byte, len(want))
	read, err := fs.Read(n, got, uint32(len(want)), 0)
	require.NoError(t, err)
	assert.EqualValues(t, len(want), read)
	assert.Equal(t, want, got)
}

func TestReadPastEndOfFileReturnsZero(t *testing.T) {
	fs := mountFresh(t, 100)

	n, err := fs.Create()
	require.NoError(t, err)

	want := []byte("abc")
	_, err = fs.Write(n, want, uint32(len(want)), 0)
	require.NoError(t, err)

	buf := make([]byte, 10)
	got, err := fs.Read(n, buf, 10, 100)
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestReadIsClampedToRecordedSize(t *testing.T) {
	fs := mountFresh(t, 100)

	n, err := fs.Create()
	require.NoError(t, err)

	want := []byte("abcde")
	_, err = fs.Write(n, want, uint32(len(want)), 0)
	require.NoError(t, err)

	buf := make([]byte, 1000)
	got, err := fs.Read(n, buf, 1000, 0)
	require.NoError(t, err)
	assert.EqualValues(t, len(want), got)
	assert.Equal(t, want, buf[:got])
}

// TestWriteCrossesIntoIndirectBlock exercises the boundary between the
// direct pointers and the single indirect block: writing a single byte at
// offset 5*BlockSize forces allocation of a 6th data block reachable only
// through the indirect index block, plus the index block itself.
func TestWriteCrossesIntoIndirectBlock(t *testing.T) {
	fs := mountFresh(t, 100)

	n, err := fs.Create()
	require.NoError(t, err)

	before, err := fs.FSStat()
	require.NoError(t, err)

	offset := uint32(5 * sfs.BlockSize)
	payload := []byte{0x42}
	written, err := fs.Write(n, payload, 1, offset)
	require.NoError(t, err)
	assert.EqualValues(t, 1, written)

	size, err := fs.Stat(n)
	require.NoError(t, err)
	assert.EqualValues(t, offset+1, size)

	after, err := fs.FSStat()
	require.NoError(t, err)
	// 5 direct data blocks + 1 indirect index block + 1 indirect data block.
	assert.EqualValues(t, 7, before.FreeBlocks-after.FreeBlocks)

	got := make([]byte, 1)
	read, err := fs.Read(n, got, 1, offset)
	require.NoError(t, err)
	assert.EqualValues(t, 1, read)
	assert.Equal(t, payload, got)
}

func TestWriteOverlappingRangeOverwritesInPlace(t *testing.T) {
	fs := mountFresh(t, 100)

	n, err := fs.Create()
	require.NoError(t, err)

	_, err = fs.Write(n, []byte("aaaaaaaaaa"), 10, 0)
	require.NoError(t, err)
	_, err = fs.Write(n, []byte("BBBB"), 4, 3)
	require.NoError(t, err)

	got := make([]byte, 10)
	_, err = fs.Read(n, got, 10, 0)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(got, []byte("aaaBBBBaaa")))
}
