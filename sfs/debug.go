package sfs

import (
	"fmt"
	"io"

	"github.com/go-simplefs/simplefs/sfserrors"
)

// Debug writes a human-readable dump of the superblock and every valid
// inode's size, direct blocks, indirect block number, and the indirect
// block's own entries.
func (fs *FileSystem) Debug(w io.Writer) sfserrors.DriverError {
	if err := fs.requireMounted(); err != nil {
		return err
	}

	fmt.Fprintf(w, "SuperBlock:\n")
	fmt.Fprintf(w, "    magic number is valid\n")
	fmt.Fprintf(w, "    %d blocks\n", fs.super.Blocks)
	fmt.Fprintf(w, "    %d inode blocks\n", fs.super.InodeBlocks)
	fmt.Fprintf(w, "    %d inodes\n", fs.super.Inodes)

	buf := make([]byte, BlockSize)
	for blockIdx := uint32(1); blockIdx <= fs.super.InodeBlocks; blockIdx++ {
		if _, err := fs.disk.Read(uint(blockIdx), buf); err != nil {
			return sfserrors.ErrIOFailed.Wrap(err)
		}

		for slot := uint32(0); slot < InodesPerBlock; slot++ {
			offset := slot * inodeRecordSize
			raw := decodeRawInode(buf[offset : offset+inodeRecordSize])
			if !raw.isValid() {
				continue
			}

			n := (blockIdx-1)*InodesPerBlock + slot
			fmt.Fprintf(w, "Inode %d:\n", n)
			fmt.Fprintf(w, "    size: %d bytes\n", raw.Size)
			fmt.Fprintf(w, "    direct blocks:")
			for _, block := range raw.Direct {
				if block == 0 {
					break
				}
				fmt.Fprintf(w, " %d", block)
			}
			fmt.Fprintln(w)

			if raw.Indirect == 0 {
				continue
			}
			fmt.Fprintf(w, "    indirect block: %d\n", raw.Indirect)

			ptrs, perr := readIndirectBlock(fs.disk, raw.Indirect)
			if perr != nil {
				return perr
			}
			fmt.Fprintf(w, "    indirect data blocks:")
			for _, block := range ptrs {
				if block == 0 {
					break
				}
				fmt.Fprintf(w, " %d", block)
			}
			fmt.Fprintln(w)
		}
	}

	return nil
}

// FSStat summarizes free blocks and free/used inode slots, derived from
// the in-memory bitmap and a scan of the inode table.
type FSStat struct {
	TotalBlocks uint32
	FreeBlocks  uint32
	TotalInodes uint32
	UsedInodes  uint32
}

func (fs *FileSystem) FSStat() (FSStat, sfserrors.DriverError) {
	if err := fs.requireMounted(); err != nil {
		return FSStat{}, err
	}

	stat := FSStat{
		TotalBlocks: fs.super.Blocks,
		TotalInodes: fs.super.Inodes,
	}
	for b := fs.super.firstDataBlock(); b < fs.super.Blocks; b++ {
		if fs.bitmap.isFree(b) {
			stat.FreeBlocks++
		}
	}

	buf := make([]byte, BlockSize)
	for blockIdx := uint32(1); blockIdx <= fs.super.InodeBlocks; blockIdx++ {
		if _, err := fs.disk.Read(uint(blockIdx), buf); err != nil {
			return FSStat{}, sfserrors.ErrIOFailed.Wrap(err)
		}
		for slot := uint32(0); slot < InodesPerBlock; slot++ {
			offset := slot * inodeRecordSize
			if decodeRawInode(buf[offset : offset+inodeRecordSize]).isValid() {
				stat.UsedInodes++
			}
		}
	}

	return stat, nil
}
