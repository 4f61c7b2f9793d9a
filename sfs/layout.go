// Package sfs implements the SFS core: on-disk layout, the inode table,
// the free-block bitmap, the allocation engine, and the file engine. It
// consumes only the disk.Disk collaborator.
package sfs

import (
	"encoding/binary"

	"github.com/go-simplefs/simplefs/disk"
)

// BlockSize is the fixed block size shared with the disk package.
const BlockSize = disk.BlockSize

// MagicNumber tags a block 0 as belonging to a formatted SFS image.
const MagicNumber uint32 = 0x53465330 // "SFS0"

// PointersPerInode is the number of direct block pointers held in one
// inode.
const PointersPerInode = 5

// PointersPerBlock is the number of 32-bit block numbers packed into one
// indirect index block.
const PointersPerBlock = BlockSize / 4

// inodeRecordSize is the on-disk width of one packed inode record: valid
// (4) + size (4) + direct[5] (20) + indirect (4) = 32 bytes. It divides
// BlockSize evenly, so inode blocks need no padding.
const inodeRecordSize = 4 + 4 + PointersPerInode*4 + 4

// InodesPerBlock is the number of inode records packed into one inode
// table block.
const InodesPerBlock = BlockSize / inodeRecordSize

// superBlockHeaderSize is the width of the superblock's four documented
// fields; the remainder of block 0 is reserved and zero.
const superBlockHeaderSize = 16

// ceilDiv returns ceil(a/b) for non-negative integers.
func ceilDiv(a, b uint32) uint32 {
	if a == 0 {
		return 0
	}
	return (a-1)/b + 1
}

// SuperBlock holds the image's four persisted header fields.
type SuperBlock struct {
	MagicNumber uint32
	Blocks      uint32
	InodeBlocks uint32
	Inodes      uint32
}

// computeSuperBlock derives the superblock that format would write for an
// image of the given total block count: inode_blocks = ceil(blocks/10).
func computeSuperBlock(blocks uint32) SuperBlock {
	inodeBlocks := ceilDiv(blocks, 10)
	return SuperBlock{
		MagicNumber: MagicNumber,
		Blocks:      blocks,
		InodeBlocks: inodeBlocks,
		Inodes:      inodeBlocks * InodesPerBlock,
	}
}

// encode serializes the superblock into one full block, zero-padded past
// the four header fields.
func (sb SuperBlock) encode() []byte {
	buf := make([]byte, BlockSize)
	binary.LittleEndian.PutUint32(buf[0:4], sb.MagicNumber)
	binary.LittleEndian.PutUint32(buf[4:8], sb.Blocks)
	binary.LittleEndian.PutUint32(buf[8:12], sb.InodeBlocks)
	binary.LittleEndian.PutUint32(buf[12:16], sb.Inodes)
	return buf
}

// decodeSuperBlock reads the first superBlockHeaderSize bytes of a block 0
// image; the reserved remainder is ignored.
func decodeSuperBlock(buf []byte) SuperBlock {
	return SuperBlock{
		MagicNumber: binary.LittleEndian.Uint32(buf[0:4]),
		Blocks:      binary.LittleEndian.Uint32(buf[4:8]),
		InodeBlocks: binary.LittleEndian.Uint32(buf[8:12]),
		Inodes:      binary.LittleEndian.Uint32(buf[12:16]),
	}
}

// firstDataBlock returns the first block index of the data region,
// inode_blocks+1.
func (sb SuperBlock) firstDataBlock() uint32 {
	return sb.InodeBlocks + 1
}
