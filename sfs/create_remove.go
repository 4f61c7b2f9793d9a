package sfs

import "github.com/go-simplefs/simplefs/sfserrors"

func (fs *FileSystem) requireMounted() sfserrors.DriverError {
	if !fs.mounted {
		return sfserrors.ErrInvalidArgument.WithMessage("FileSystem is not mounted")
	}
	return nil
}

// Create allocates the first free inode slot, marks it valid, and returns
// its linear inode number. No data blocks are allocated.
func (fs *FileSystem) Create() (uint32, sfserrors.DriverError) {
	if err := fs.requireMounted(); err != nil {
		return 0, err
	}

	buf := make([]byte, BlockSize)
	for blockIdx := uint32(1); blockIdx <= fs.super.InodeBlocks; blockIdx++ {
		if _, err := fs.disk.Read(uint(blockIdx), buf); err != nil {
			return 0, sfserrors.ErrIOFailed.Wrap(err)
		}

		for slot := uint32(0); slot < InodesPerBlock; slot++ {
			offset := slot * inodeRecordSize
			raw := decodeRawInode(buf[offset : offset+inodeRecordSize])
			if raw.isValid() {
				continue
			}

			raw = RawInode{Valid: 1}
			raw.encode(buf[offset : offset+inodeRecordSize])
			if _, err := fs.disk.Write(uint(blockIdx), buf); err != nil {
				return 0, sfserrors.ErrIOFailed.Wrap(err)
			}
			return (blockIdx-1)*InodesPerBlock + slot, nil
		}
	}

	return 0, sfserrors.ErrNoSpaceOnDevice.WithMessage("no free inode")
}

// Remove releases every block reachable from inode n and invalidates its
// slot. On-disk block contents are left unchanged; they are implicitly
// reused the next time allocateBlock reaches them.
func (fs *FileSystem) Remove(n uint32) sfserrors.DriverError {
	if err := fs.requireMounted(); err != nil {
		return err
	}

	raw, err := loadInode(fs.disk, n)
	if err != nil {
		return err
	}

	for _, block := range raw.Direct {
		if block == 0 {
			break
		}
		if err := fs.releaseBlock(block); err != nil {
			return err
		}
	}

	if raw.Indirect != 0 {
		ptrs, perr := readIndirectBlock(fs.disk, raw.Indirect)
		if perr != nil {
			return perr
		}
		for _, block := range ptrs {
			if block == 0 {
				break
			}
			if err := fs.releaseBlock(block); err != nil {
				return err
			}
		}
		if err := fs.releaseBlock(raw.Indirect); err != nil {
			return err
		}
	}

	return saveInode(fs.disk, n, RawInode{})
}

// Stat returns inode n's size in bytes.
func (fs *FileSystem) Stat(n uint32) (uint32, sfserrors.DriverError) {
	if err := fs.requireMounted(); err != nil {
		return 0, err
	}

	raw, err := loadInode(fs.disk, n)
	if err != nil {
		return 0, err
	}
	return raw.Size, nil
}
