// Command sfsshell is the interactive surface for SFS: a REPL that turns
// typed commands into calls against the SFS core.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/go-simplefs/simplefs/disk"
	"github.com/go-simplefs/simplefs/sfs"
	"github.com/go-simplefs/simplefs/utilities/compression"
)

// session holds the state a single shell instance threads through every
// command: the currently mounted disk and FileSystem, if any.
type session struct {
	disk *disk.Disk
	fs   *sfs.FileSystem
	done bool
}

func main() {
	sess := &session{}
	app := buildApp(sess)

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("sfs> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			args := append([]string{"sfsshell"}, strings.Fields(line)...)
			if err := app.RunContext(context.Background(), args); err != nil {
				log.Printf("error: %s", err)
			}
		}
		if sess.done {
			break
		}
		fmt.Print("sfs> ")
	}

	if sess.fs != nil && sess.fs.Mounted() {
		sess.fs.Unmount()
	}
	if sess.disk != nil {
		sess.disk.Close()
	}
}

func buildApp(sess *session) *cli.App {
	return &cli.App{
		Name:  "sfsshell",
		Usage: "inspect and manipulate an SFS image interactively",
		Commands: []*cli.Command{
			{
				Name:      "format",
				Usage:     "format PATH (BLOCKS|PROFILE) -- create or wipe an image",
				ArgsUsage: "PATH (BLOCKS|PROFILE)",
				Action:    actionFormat(sess),
			},
			{
				Name:      "mount",
				Usage:     "mount PATH BLOCKS -- attach an existing image",
				ArgsUsage: "PATH BLOCKS",
				Action:    actionMount(sess),
			},
			{
				Name:   "debug",
				Usage:  "dump the superblock and every valid inode",
				Action: actionDebug(sess),
			},
			{
				Name:   "create",
				Usage:  "allocate a fresh inode",
				Action: actionCreate(sess),
			},
			{
				Name:      "remove",
				Usage:     "remove INODE -- release an inode and its blocks",
				ArgsUsage: "INODE",
				Action:    actionRemove(sess),
			},
			{
				Name:      "stat",
				Usage:     "stat INODE -- print an inode's size",
				ArgsUsage: "INODE",
				Action:    actionStat(sess),
			},
			{
				Name:      "read",
				Usage:     "read INODE LENGTH OFFSET -- print bytes from an inode",
				ArgsUsage: "INODE LENGTH OFFSET",
				Action:    actionRead(sess),
			},
			{
				Name:      "write",
				Usage:     "write INODE DATA LENGTH OFFSET -- write bytes into an inode",
				ArgsUsage: "INODE DATA LENGTH OFFSET",
				Action:    actionWrite(sess),
			},
			{
				Name:      "export",
				Usage:     "export IMAGE ARCHIVE -- RLE8+gzip an image file for storage or transfer",
				ArgsUsage: "IMAGE ARCHIVE",
				Action:    actionExport(sess),
			},
			{
				Name:      "import",
				Usage:     "import ARCHIVE IMAGE -- expand an archive back into a raw image file",
				ArgsUsage: "ARCHIVE IMAGE",
				Action:    actionImport(sess),
			},
			{
				Name:    "quit",
				Aliases: []string{"exit"},
				Usage:   "leave the shell",
				Action: func(*cli.Context) error {
					sess.done = true
					return nil
				},
			},
		},
	}
}

func actionFormat(sess *session) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		if ctx.Args().Len() < 2 {
			return fmt.Errorf("usage: format PATH (BLOCKS|PROFILE)")
		}
		path := ctx.Args().Get(0)

		blocks, err := parseBlockCount(ctx.Args().Get(1))
		if err != nil {
			return err
		}

		d, derr := disk.Open(path, blocks)
		if derr != nil {
			return derr
		}

		if err := sfs.New().Format(d); err != nil {
			d.Close()
			return err
		}
		fmt.Printf("formatted %s (%d blocks)\n", path, blocks)
		return d.Close()
	}
}

func actionMount(sess *session) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		if ctx.Args().Len() < 2 {
			return fmt.Errorf("usage: mount PATH BLOCKS")
		}
		path := ctx.Args().Get(0)
		blocks, err := parseBlockCount(ctx.Args().Get(1))
		if err != nil {
			return err
		}

		d, derr := disk.Open(path, blocks)
		if derr != nil {
			return derr
		}

		fs := sfs.New()
		if err := fs.Mount(d); err != nil {
			d.Close()
			return err
		}

		sess.disk = d
		sess.fs = fs
		fmt.Printf("mounted %s\n", path)
		return nil
	}
}

func actionDebug(sess *session) cli.ActionFunc {
	return func(*cli.Context) error {
		if sess.fs == nil {
			return fmt.Errorf("not mounted")
		}
		return sess.fs.Debug(os.Stdout)
	}
}

func actionCreate(sess *session) cli.ActionFunc {
	return func(*cli.Context) error {
		if sess.fs == nil {
			return fmt.Errorf("not mounted")
		}
		n, err := sess.fs.Create()
		if err != nil {
			return err
		}
		fmt.Printf("created inode %d\n", n)
		return nil
	}
}

func actionRemove(sess *session) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		if sess.fs == nil {
			return fmt.Errorf("not mounted")
		}
		n, err := parseInodeNumber(ctx.Args().Get(0))
		if err != nil {
			return err
		}
		if err := sess.fs.Remove(n); err != nil {
			return err
		}
		fmt.Printf("removed inode %d\n", n)
		return nil
	}
}

func actionStat(sess *session) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		if sess.fs == nil {
			return fmt.Errorf("not mounted")
		}
		n, err := parseInodeNumber(ctx.Args().Get(0))
		if err != nil {
			return err
		}
		size, serr := sess.fs.Stat(n)
		if serr != nil {
			return serr
		}
		fmt.Printf("inode %d is %d bytes\n", n, size)
		return nil
	}
}

func actionRead(sess *session) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		if sess.fs == nil {
			return fmt.Errorf("not mounted")
		}
		if ctx.Args().Len() < 3 {
			return fmt.Errorf("usage: read INODE LENGTH OFFSET")
		}
		n, err := parseInodeNumber(ctx.Args().Get(0))
		if err != nil {
			return err
		}
		length, err := parseUint32(ctx.Args().Get(1))
		if err != nil {
			return err
		}
		offset, err := parseUint32(ctx.Args().Get(2))
		if err != nil {
			return err
		}

		buf := make([]byte, length)
		got, rerr := sess.fs.Read(n, buf, length, offset)
		if rerr != nil {
			return rerr
		}
		fmt.Printf("%d bytes: %q\n", got, buf[:got])
		return nil
	}
}

func actionWrite(sess *session) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		if sess.fs == nil {
			return fmt.Errorf("not mounted")
		}
		if ctx.Args().Len() < 4 {
			return fmt.Errorf("usage: write INODE DATA LENGTH OFFSET")
		}
		n, err := parseInodeNumber(ctx.Args().Get(0))
		if err != nil {
			return err
		}
		data := ctx.Args().Get(1)
		length, err := parseUint32(ctx.Args().Get(2))
		if err != nil {
			return err
		}
		offset, err := parseUint32(ctx.Args().Get(3))
		if err != nil {
			return err
		}

		written, werr := sess.fs.Write(n, []byte(data), length, offset)
		if werr != nil {
			return werr
		}
		fmt.Printf("wrote %d bytes\n", written)
		return nil
	}
}

// actionExport RLE8+gzip-compresses a raw image file, independent of
// whatever is currently mounted in this session, so a formatted image can
// be archived or shipped around without its mostly-zero data region
// bloating the transfer.
func actionExport(sess *session) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		if ctx.Args().Len() < 2 {
			return fmt.Errorf("usage: export IMAGE ARCHIVE")
		}
		imagePath := ctx.Args().Get(0)
		archivePath := ctx.Args().Get(1)

		image, err := os.Open(imagePath)
		if err != nil {
			return err
		}
		defer image.Close()

		archive, err := os.Create(archivePath)
		if err != nil {
			return err
		}
		defer archive.Close()

		written, cerr := compression.CompressImage(image, archive)
		if cerr != nil {
			return cerr
		}
		fmt.Printf("wrote %d compressed bytes to %s\n", written, archivePath)
		return nil
	}
}

// actionImport expands a compressed archive back into a raw image file
// that mount or format can then operate on directly.
func actionImport(sess *session) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		if ctx.Args().Len() < 2 {
			return fmt.Errorf("usage: import ARCHIVE IMAGE")
		}
		archivePath := ctx.Args().Get(0)
		imagePath := ctx.Args().Get(1)

		archive, err := os.Open(archivePath)
		if err != nil {
			return err
		}
		defer archive.Close()

		image, err := os.Create(imagePath)
		if err != nil {
			return err
		}
		defer image.Close()

		written, derr := compression.DecompressImage(archive, image)
		if derr != nil {
			return derr
		}
		fmt.Printf("wrote %d bytes to %s\n", written, imagePath)
		return nil
	}
}

func parseBlockCount(arg string) (uint, error) {
	if profile, ok := sfs.ProfileByName(arg); ok {
		return uint(profile.Blocks), nil
	}
	n, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid block count or profile name %q", arg)
	}
	return uint(n), nil
}

func parseInodeNumber(arg string) (uint32, error) {
	n, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid inode number %q", arg)
	}
	return uint32(n), nil
}

func parseUint32(arg string) (uint32, error) {
	n, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", arg)
	}
	return uint32(n), nil
}
