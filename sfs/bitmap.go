package sfs

import (
	"github.com/boljen/go-bitmap"

	"github.com/go-simplefs/simplefs/disk"
	"github.com/go-simplefs/simplefs/sfserrors"
)

// freeBitmap is the in-memory free-block map. It is pure derived state:
// never written to disk, always rebuildable from inode reachability at
// mount time. A set bit means "in use".
type freeBitmap struct {
	inUse bitmap.Bitmap
	size  uint32
}

func newFreeBitmap(size uint32) *freeBitmap {
	return &freeBitmap{inUse: bitmap.New(int(size)), size: size}
}

func (fb *freeBitmap) isFree(block uint32) bool {
	return !fb.inUse.Get(int(block))
}

func (fb *freeBitmap) markUsed(block uint32) {
	fb.inUse.Set(int(block), true)
}

func (fb *freeBitmap) markFree(block uint32) {
	fb.inUse.Set(int(block), false)
}

// buildBitmap reconstructs the free-block bitmap by scanning every valid
// inode's direct and indirect pointers.
func buildBitmap(d *disk.Disk, sb SuperBlock) (*freeBitmap, sfserrors.DriverError) {
	fb := newFreeBitmap(sb.Blocks)

	// Block 0 (superblock) and 1..inode_blocks (inode table) are never free.
	for i := uint32(0); i <= sb.InodeBlocks; i++ {
		fb.markUsed(i)
	}

	buf := make([]byte, BlockSize)
	for blockIdx := uint32(1); blockIdx <= sb.InodeBlocks; blockIdx++ {
		if _, err := d.Read(uint(blockIdx), buf); err != nil {
			return nil, sfserrors.ErrIOFailed.Wrap(err)
		}

		for slot := uint32(0); slot < InodesPerBlock; slot++ {
			offset := slot * inodeRecordSize
			raw := decodeRawInode(buf[offset : offset+inodeRecordSize])
			if !raw.isValid() {
				continue
			}
			if err := fb.markInodeReachable(d, raw); err != nil {
				return nil, err
			}
		}
	}

	return fb, nil
}

// markInodeReachable marks every block reachable from raw (direct,
// indirect index, and the indirect block's own entries) as not-free.
func (fb *freeBitmap) markInodeReachable(d *disk.Disk, raw RawInode) sfserrors.DriverError {
	for _, block := range raw.Direct {
		if block == 0 {
			break
		}
		fb.markUsed(block)
	}

	if raw.Indirect == 0 {
		return nil
	}
	fb.markUsed(raw.Indirect)

	ptrs, err := readIndirectBlock(d, raw.Indirect)
	if err != nil {
		return err
	}
	for _, block := range ptrs {
		if block == 0 {
			break
		}
		fb.markUsed(block)
	}
	return nil
}
