package sfs

import "github.com/go-simplefs/simplefs/sfserrors"

// expand grows raw so that at least newSize bytes are backed by allocated
// blocks. Growth is best-effort: if the data region fills up partway
// through, expand keeps whatever it managed to allocate and sets raw.Size
// truthfully to reflect exactly the bytes actually backed, rather than
// rolling back or failing outright.
func (fs *FileSystem) expand(raw *RawInode, newSize uint32) sfserrors.DriverError {
	oldBlocks := ceilDiv(raw.Size, BlockSize)
	newBlocks := ceilDiv(newSize, BlockSize)

	if newBlocks <= oldBlocks {
		if newSize > raw.Size {
			raw.Size = newSize
		}
		return nil
	}

	need := newBlocks - oldBlocks
	idx := oldBlocks
	for idx < PointersPerInode && need > 0 {
		block, err := fs.allocateBlock()
		if err != nil {
			break
		}
		raw.Direct[idx] = block
		idx++
		need--
	}

	if need > 0 && idx >= PointersPerInode {
		if err := fs.expandIndirect(raw, idx-PointersPerInode, &need); err != nil {
			return err
		}
	}

	if need == 0 {
		raw.Size = newSize
	} else {
		raw.Size = (newBlocks - need) * BlockSize
	}
	return nil
}

// expandIndirect places up to *need more block pointers into raw's
// indirect table, starting at slot j, allocating the indirect index block
// itself on first use.
func (fs *FileSystem) expandIndirect(raw *RawInode, j uint32, need *uint32) sfserrors.DriverError {
	wasNew := false
	var ptrs []uint32

	if raw.Indirect == 0 {
		block, err := fs.allocateBlock()
		if err != nil {
			// No space even for the index block; nothing more to do.
			return nil
		}
		raw.Indirect = block
		wasNew = true
		ptrs = make([]uint32, PointersPerBlock)
	} else {
		var perr sfserrors.DriverError
		ptrs, perr = readIndirectBlock(fs.disk, raw.Indirect)
		if perr != nil {
			return perr
		}
	}

	placed := false
	for j < PointersPerBlock && *need > 0 {
		block, err := fs.allocateBlock()
		if err != nil {
			break
		}
		ptrs[j] = block
		j++
		*need--
		placed = true
	}

	if wasNew && !placed {
		if err := fs.releaseBlock(raw.Indirect); err != nil {
			return err
		}
		raw.Indirect = 0
		return nil
	}

	return writeIndirectBlock(fs.disk, raw.Indirect, ptrs)
}
