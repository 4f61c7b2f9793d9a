package sfs

import (
	"github.com/go-simplefs/simplefs/disk"
	"github.com/go-simplefs/simplefs/sfserrors"
)

// FileSystem is a mounted SFS image. It owns its free-block bitmap; the
// disk is a borrowed collaborator held only for the mount lifetime.
//
// FileSystem carries no mutex: SFS has exactly one in-flight caller, so
// no operation may be invoked concurrently on the same FileSystem. A
// future concurrent caller should add a single mutex around the whole
// value rather than field-level locks, since every operation touches the
// bitmap.
type FileSystem struct {
	disk    *disk.Disk
	super   SuperBlock
	bitmap  *freeBitmap
	mounted bool
}

// New returns an unmounted FileSystem ready to Format or Mount against a
// disk.
func New() *FileSystem {
	return &FileSystem{}
}

// Mounted reports whether a disk is currently attached.
func (fs *FileSystem) Mounted() bool {
	return fs.mounted
}

// allocateBlock performs a first-fit linear scan of the data region,
// starting just past the inode table, and atomically marks the first
// free block as in-use.
func (fs *FileSystem) allocateBlock() (uint32, sfserrors.DriverError) {
	for b := fs.super.firstDataBlock(); b < fs.super.Blocks; b++ {
		if fs.bitmap.isFree(b) {
			fs.bitmap.markUsed(b)
			return b, nil
		}
	}
	return 0, sfserrors.ErrNoSpaceOnDevice.WithMessage("data region exhausted")
}

// releaseBlock marks block as free. Releasing an already-free block is a
// programming error (double free) and is rejected rather than silently
// accepted, to catch bugs in the allocator's callers.
func (fs *FileSystem) releaseBlock(block uint32) sfserrors.DriverError {
	if fs.bitmap.isFree(block) {
		return sfserrors.ErrInvalidArgument.WithMessage("double free of data block")
	}
	fs.bitmap.markFree(block)
	return nil
}
