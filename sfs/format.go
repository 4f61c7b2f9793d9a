package sfs

import (
	"github.com/go-simplefs/simplefs/disk"
	"github.com/go-simplefs/simplefs/sfserrors"
)

// Format prepares a disk that is not currently mounted by this
// FileSystem. It zero-fills the inode table (invalidating every slot)
// and writes a fresh superblock. It deliberately does not zero the data
// region: the bitmap is rebuilt from inode reachability, not from block
// contents.
func (fs *FileSystem) Format(d *disk.Disk) sfserrors.DriverError {
	if fs.mounted {
		return sfserrors.ErrBusy.WithMessage("cannot format a disk this FileSystem has mounted")
	}

	sb := computeSuperBlock(uint32(d.Blocks()))

	zeroBlock := make([]byte, BlockSize)
	for b := uint32(1); b <= sb.InodeBlocks; b++ {
		if _, err := d.Write(uint(b), zeroBlock); err != nil {
			return sfserrors.ErrIOFailed.Wrap(err)
		}
	}

	if _, err := d.Write(0, sb.encode()); err != nil {
		return sfserrors.ErrIOFailed.Wrap(err)
	}

	return nil
}
