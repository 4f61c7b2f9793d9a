package sfs

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/go-simplefs/simplefs/disk"
	"github.com/go-simplefs/simplefs/sfserrors"
)

// Mount attaches d, validates its superblock, and rebuilds the free-block
// bitmap. It is rejected if this FileSystem already has a disk attached.
// Every violated superblock invariant is reported together rather than
// stopping at the first one, so a caller debugging a corrupt image sees
// the whole picture in one error.
func (fs *FileSystem) Mount(d *disk.Disk) sfserrors.DriverError {
	if fs.mounted {
		return sfserrors.ErrAlreadyInProgress.WithMessage("FileSystem already has a disk mounted")
	}

	buf := make([]byte, BlockSize)
	if _, err := d.Read(0, buf); err != nil {
		return sfserrors.ErrIOFailed.Wrap(err)
	}
	sb := decodeSuperBlock(buf)

	if err := validateSuperBlock(sb, uint32(d.Blocks())); err != nil {
		return sfserrors.ErrInvalidFileSystem.Wrap(err)
	}

	bitmap, berr := buildBitmap(d, sb)
	if berr != nil {
		return berr
	}

	fs.disk = d
	fs.super = sb
	fs.bitmap = bitmap
	fs.mounted = true
	return nil
}

// validateSuperBlock checks every invariant a formatted image must
// satisfy, collecting all failures with go-multierror instead of
// returning on the first one.
func validateSuperBlock(sb SuperBlock, diskBlocks uint32) error {
	var errs *multierror.Error

	if sb.MagicNumber != MagicNumber {
		errs = multierror.Append(errs, fmt.Errorf(
			"bad magic number: got %#x, want %#x", sb.MagicNumber, MagicNumber))
	}
	if sb.Blocks != diskBlocks {
		errs = multierror.Append(errs, fmt.Errorf(
			"superblock blocks (%d) does not match disk blocks (%d)", sb.Blocks, diskBlocks))
	}

	wantInodeBlocks := ceilDiv(sb.Blocks, 10)
	if sb.InodeBlocks != wantInodeBlocks {
		errs = multierror.Append(errs, fmt.Errorf(
			"inode_blocks (%d) is not ceil(blocks/10) (%d)", sb.InodeBlocks, wantInodeBlocks))
	}

	wantInodes := sb.InodeBlocks * InodesPerBlock
	if sb.Inodes != wantInodes {
		errs = multierror.Append(errs, fmt.Errorf(
			"inodes (%d) is not inode_blocks*InodesPerBlock (%d)", sb.Inodes, wantInodes))
	}

	return errs.ErrorOrNil()
}

// Unmount detaches the disk reference and releases the bitmap. It
// tolerates a never-mounted FileSystem. The Disk collaborator itself is
// not closed; the caller owns that lifecycle.
func (fs *FileSystem) Unmount() sfserrors.DriverError {
	fs.disk = nil
	fs.bitmap = nil
	fs.super = SuperBlock{}
	fs.mounted = false
	return nil
}
