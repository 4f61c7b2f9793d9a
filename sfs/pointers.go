package sfs

import (
	"encoding/binary"

	"github.com/go-simplefs/simplefs/disk"
	"github.com/go-simplefs/simplefs/sfserrors"
)

// readIndirectBlock loads an indirect index block as PointersPerBlock
// packed 32-bit block numbers.
func readIndirectBlock(d *disk.Disk, block uint32) ([]uint32, sfserrors.DriverError) {
	buf := make([]byte, BlockSize)
	if _, err := d.Read(uint(block), buf); err != nil {
		return nil, sfserrors.ErrIOFailed.Wrap(err)
	}

	ptrs := make([]uint32, PointersPerBlock)
	for i := range ptrs {
		ptrs[i] = binary.LittleEndian.Uint32(buf[i*4 : i*4+4])
	}
	return ptrs, nil
}

// writeIndirectBlock serializes ptrs back to an indirect index block.
func writeIndirectBlock(d *disk.Disk, block uint32, ptrs []uint32) sfserrors.DriverError {
	buf := make([]byte, BlockSize)
	for i, p := range ptrs {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], p)
	}
	if _, err := d.Write(uint(block), buf); err != nil {
		return sfserrors.ErrIOFailed.Wrap(err)
	}
	return nil
}
