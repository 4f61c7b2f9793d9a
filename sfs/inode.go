package sfs

import (
	"encoding/binary"

	"github.com/noxer/bytewriter"

	"github.com/go-simplefs/simplefs/disk"
	"github.com/go-simplefs/simplefs/sfserrors"
)

// RawInode is the fixed-size packed record stored in the inode table.
// Valid is non-zero iff the slot is in use; Direct and Indirect are
// zero-terminated pointer arrays, with 0 reserved as "no block".
type RawInode struct {
	Valid    uint32
	Size     uint32
	Direct   [PointersPerInode]uint32
	Indirect uint32
}

func (r RawInode) isValid() bool {
	return r.Valid != 0
}

// encode packs the inode into dst, which must be exactly inodeRecordSize
// bytes.
func (r RawInode) encode(dst []byte) {
	w := bytewriter.New(dst)
	binary.Write(w, binary.LittleEndian, r.Valid)
	binary.Write(w, binary.LittleEndian, r.Size)
	for _, block := range r.Direct {
		binary.Write(w, binary.LittleEndian, block)
	}
	binary.Write(w, binary.LittleEndian, r.Indirect)
}

func decodeRawInode(src []byte) RawInode {
	var r RawInode
	r.Valid = binary.LittleEndian.Uint32(src[0:4])
	r.Size = binary.LittleEndian.Uint32(src[4:8])
	for i := 0; i < PointersPerInode; i++ {
		start := 8 + i*4
		r.Direct[i] = binary.LittleEndian.Uint32(src[start : start+4])
	}
	r.Indirect = binary.LittleEndian.Uint32(src[8+PointersPerInode*4:])
	return r
}

// inodeLocation returns the inode table block holding inode number n and
// the byte offset of its record within that block.
func inodeLocation(n uint32) (block uint, offset uint) {
	block = 1 + uint(n/InodesPerBlock)
	offset = uint(n%InodesPerBlock) * inodeRecordSize
	return block, offset
}

// loadInode reads inode n's record. It fails if the disk read fails or
// the slot is invalid.
func loadInode(d *disk.Disk, n uint32) (RawInode, sfserrors.DriverError) {
	block, offset := inodeLocation(n)

	buf := make([]byte, BlockSize)
	if _, err := d.Read(block, buf); err != nil {
		return RawInode{}, sfserrors.ErrIOFailed.Wrap(err)
	}

	raw := decodeRawInode(buf[offset : offset+inodeRecordSize])
	if !raw.isValid() {
		return RawInode{}, sfserrors.ErrNotFound.WithMessage("inode slot is not allocated")
	}
	return raw, nil
}

// saveInode performs a read-modify-write of inode n's table block,
// overwriting only that slot.
func saveInode(d *disk.Disk, n uint32, raw RawInode) sfserrors.DriverError {
	block, offset := inodeLocation(n)

	buf := make([]byte, BlockSize)
	if _, err := d.Read(block, buf); err != nil {
		return sfserrors.ErrIOFailed.Wrap(err)
	}

	raw.encode(buf[offset : offset+inodeRecordSize])

	if _, err := d.Write(block, buf); err != nil {
		return sfserrors.ErrIOFailed.Wrap(err)
	}
	return nil
}
