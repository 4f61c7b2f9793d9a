package sfs

import "github.com/go-simplefs/simplefs/sfserrors"

// Read copies up to length bytes of inode n's contents, starting at
// offset, into dst. It returns the count of bytes actually copied, which
// is clamped to the inode's recorded size.
func (fs *FileSystem) Read(n uint32, dst []byte, length, offset uint32) (uint32, sfserrors.DriverError) {
	if err := fs.requireMounted(); err != nil {
		return 0, err
	}

	raw, err := loadInode(fs.disk, n)
	if err != nil {
		return 0, err
	}

	if offset >= raw.Size {
		return 0, nil
	}
	if remaining := raw.Size - offset; length > remaining {
		length = remaining
	}

	i := offset / BlockSize
	blockOffset := offset % BlockSize
	var copied uint32

	for i < PointersPerInode && copied < length {
		block := raw.Direct[i]
		if block == 0 {
			break
		}
		n, err := fs.readBlockInto(block, blockOffset, dst[copied:], length-copied)
		if err != nil {
			return copied, err
		}
		copied += n
		i++
		blockOffset = 0
	}

	if copied < length && raw.Indirect != 0 && i >= PointersPerInode {
		ptrs, perr := readIndirectBlock(fs.disk, raw.Indirect)
		if perr != nil {
			return copied, perr
		}

		for j := i - PointersPerInode; j < PointersPerBlock && copied < length; j++ {
			block := ptrs[j]
			if block == 0 {
				break
			}
			n, err := fs.readBlockInto(block, blockOffset, dst[copied:], length-copied)
			if err != nil {
				return copied, err
			}
			copied += n
			blockOffset = 0
		}
	}

	return copied, nil
}

func (fs *FileSystem) readBlockInto(block, blockOffset uint32, dst []byte, remaining uint32) (uint32, sfserrors.DriverError) {
	buf := make([]byte, BlockSize)
	if _, err := fs.disk.Read(uint(block), buf); err != nil {
		return 0, sfserrors.ErrIOFailed.Wrap(err)
	}

	n := minU32(BlockSize-blockOffset, remaining)
	n = minU32(n, uint32(len(dst)))
	copy(dst[:n], buf[blockOffset:blockOffset+n])
	return n, nil
}

// Write grows inode n to cover offset+length (via expand) and then copies
// length bytes from src into it starting at offset, using read-modify-
// write on each touched block. It returns the count of bytes actually
// written, which is short of length only when expand could not allocate
// the full requested range.
func (fs *FileSystem) Write(n uint32, src []byte, length, offset uint32) (uint32, sfserrors.DriverError) {
	if err := fs.requireMounted(); err != nil {
		return 0, err
	}

	raw, err := loadInode(fs.disk, n)
	if err != nil {
		return 0, err
	}

	if err := fs.expand(&raw, offset+length); err != nil {
		return 0, err
	}

	i := offset / BlockSize
	blockOffset := offset % BlockSize
	var written uint32

	for i < PointersPerInode && written < length {
		block := raw.Direct[i]
		if block == 0 {
			break
		}
		n, err := fs.writeBlockFrom(block, blockOffset, src[written:], length-written)
		if err != nil {
			return written, err
		}
		written += n
		i++
		blockOffset = 0
	}

	if written < length && raw.Indirect != 0 && i >= PointersPerInode {
		ptrs, perr := readIndirectBlock(fs.disk, raw.Indirect)
		if perr != nil {
			return written, perr
		}

		for j := i - PointersPerInode; j < PointersPerBlock && written < length; j++ {
			block := ptrs[j]
			if block == 0 {
				break
			}
			n, err := fs.writeBlockFrom(block, blockOffset, src[written:], length-written)
			if err != nil {
				return written, err
			}
			written += n
			blockOffset = 0
		}
	}

	if err := saveInode(fs.disk, n, raw); err != nil {
		return written, err
	}
	return written, nil
}

func (fs *FileSystem) writeBlockFrom(block, blockOffset uint32, src []byte, remaining uint32) (uint32, sfserrors.DriverError) {
	buf := make([]byte, BlockSize)
	if _, err := fs.disk.Read(uint(block), buf); err != nil {
		return 0, sfserrors.ErrIOFailed.Wrap(err)
	}

	n := minU32(BlockSize-blockOffset, remaining)
	n = minU32(n, uint32(len(src)))
	copy(buf[blockOffset:blockOffset+n], src[:n])

	if _, err := fs.disk.Write(uint(block), buf); err != nil {
		return 0, sfserrors.ErrIOFailed.Wrap(err)
	}
	return n, nil
}
