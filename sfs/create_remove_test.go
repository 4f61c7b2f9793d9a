package sfs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-simplefs/simplefs/internal/sfstest"
	"github.com/go-simplefs/simplefs/sfs"
)

func mountFresh(t *testing.T, blocks uint) *sfs.FileSystem {
	t.Helper()
	d := sfstest.NewMemDisk(t, blocks)
	require.NoError(t, sfs.New().Format(d))
	fs := sfs.New()
	require.NoError(t, fs.Mount(d))
	return fs
}

func TestCreateStatRemove(t *testing.T) {
	fs := mountFresh(t, 100)

	n, err := fs.Create()
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	size, err := fs.Stat(n)
	require.NoError(t, err)
	assert.EqualValues(t, 0, size)

	require.NoError(t, fs.Remove(n))

	_, err = fs.Stat(n)
	assert.Error(t, err)
}

func TestCreateAssignsIncreasingInodeNumbers(t *testing.T) {
	fs := mountFresh(t, 100)

	first, err := fs.Create()
	require.NoError(t, err)
	second, err := fs.Create()
	require.NoError(t, err)

	assert.Greater(t, second, first)
}

func TestCreateFailsWhenInodeTableIsFull(t *testing.T) {
	fs := mountFresh(t, 20) // inode_blocks = ceil(20/10) = 2 -> 2*InodesPerBlock slots
	stat, err := fs.FSStat()
	require.NoError(t, err)

	for i := uint32(0); i < stat.TotalInodes; i++ {
		_, err := fs.Create()
		require.NoError(t, err)
	}

	_, err = fs.Create()
	assert.Error(t, err)
}

func TestRemoveReleasesBlocksForReuse(t *testing.T) {
	fs := mountFresh(t, 100)

	n, err := fs.Create()
	require.NoError(t, err)

	data := make([]byte, 4096)
	_, err = fs.Write(n, data, uint32(len(data)), 0)
	require.NoError(t, err)

	before, err := fs.FSStat()
	require.NoError(t, err)

	require.NoError(t, fs.Remove(n))

	after, err := fs.FSStat()
	require.NoError(t, err)
	assert.Greater(t, after.FreeBlocks, before.FreeBlocks)
}

func TestRemoveOfInvalidInodeFails(t *testing.T) {
	fs := mountFresh(t, 100)
	assert.Error(t, fs.Remove(0))
}
