// Package disk implements the block device collaborator: a fixed-size
// array of BlockSize-byte blocks backed by a single image file, exposing
// whole-block reads and writes and tracking cumulative I/O counters for
// diagnostics.
//
// This package is intentionally outside the SFS core: it knows nothing
// about superblocks, inodes, or bitmaps.
package disk

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-simplefs/simplefs/sfserrors"
)

// BlockSize is the fixed block size, in bytes, recognized by every SFS
// image writer and reader.
const BlockSize = 4096

// Disk is a random-access array of Blocks() fixed-size blocks. The zero
// value is not usable; construct one with Open.
type Disk struct {
	stream io.ReadWriteSeeker
	closer io.Closer
	blocks uint

	reads  uint64
	writes uint64
	closed bool
}

// Open opens (creating if necessary) the image file at path and sizes it
// to exactly blocks*BlockSize bytes.
func Open(path string, blocks uint) (*Disk, error) {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, sfserrors.ErrIOFailed.Wrap(err)
	}

	targetSize := int64(blocks) * int64(BlockSize)
	if err := file.Truncate(targetSize); err != nil {
		file.Close()
		return nil, sfserrors.ErrIOFailed.Wrap(err)
	}

	return &Disk{stream: file, closer: file, blocks: blocks}, nil
}

// NewFromStream wraps an already-open stream of the right size as a Disk.
// It exists for internal/sfstest, which mounts in-memory fixture images
// without touching the real filesystem; production code should use Open.
func NewFromStream(stream io.ReadWriteSeeker, blocks uint) *Disk {
	return &Disk{stream: stream, blocks: blocks}
}

// Blocks returns the total number of blocks on this disk.
func (d *Disk) Blocks() uint {
	return d.blocks
}

func (d *Disk) checkBounds(block uint, buf []byte) error {
	if d.closed {
		return sfserrors.ErrClosed
	}
	if block >= d.blocks {
		return sfserrors.ErrArgumentOutOfRange.WithMessage(
			fmt.Sprintf("block %d not in range [0, %d)", block, d.blocks))
	}
	if buf == nil || len(buf) != BlockSize {
		return sfserrors.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("buffer must be exactly %d bytes, got %d", BlockSize, len(buf)))
	}
	return nil
}

// Read reads exactly one block into buf, which must be BlockSize bytes.
func (d *Disk) Read(block uint, buf []byte) (int, error) {
	if err := d.checkBounds(block, buf); err != nil {
		return 0, err
	}

	if _, err := d.stream.Seek(int64(block)*BlockSize, io.SeekStart); err != nil {
		return 0, sfserrors.ErrIOFailed.Wrap(err)
	}

	n, err := io.ReadFull(d.stream, buf)
	if err != nil {
		return 0, sfserrors.ErrIOFailed.Wrap(err)
	}
	d.reads++
	return n, nil
}

// Write writes exactly one block from buf, which must be BlockSize bytes.
func (d *Disk) Write(block uint, buf []byte) (int, error) {
	if err := d.checkBounds(block, buf); err != nil {
		return 0, err
	}

	if _, err := d.stream.Seek(int64(block)*BlockSize, io.SeekStart); err != nil {
		return 0, sfserrors.ErrIOFailed.Wrap(err)
	}

	n, err := d.stream.Write(buf)
	if err != nil || n != BlockSize {
		return n, sfserrors.ErrIOFailed.Wrap(err)
	}
	d.writes++
	return n, nil
}

// Close detaches the disk, logging cumulative read/write counts (spec
// §6.2). If the disk was built over a stream with no closer (e.g. in
// tests), the stream itself is left open; the disk is still marked closed.
func (d *Disk) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true

	log.Printf("disk: %d reads, %d writes, %d blocks", d.reads, d.writes, d.blocks)

	if d.closer == nil {
		return nil
	}
	if err := d.closer.Close(); err != nil {
		return sfserrors.ErrIOFailed.Wrap(err)
	}
	return nil
}
