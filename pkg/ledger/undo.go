package ledger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/0xmhha/folder-organizer/pkg/logger"
)

// restoreSession replays a session's moves in reverse registration order.
//
// Each file is restored only when its destination still exists and its
// source is free; anything the user or another process touched since the
// batch ran is left alone. Returns the number of files actually restored.
func restoreSession(log logger.Logger, s *Session) int {
	restored := 0
	for i := len(s.Moves) - 1; i >= 0; i-- {
		mv := s.Moves[i]

		if _, err := os.Lstat(mv.Destination); err != nil {
			log.Warn("skipping restore, destination gone",
				"session", s.ID,
				"destination", mv.Destination)
			continue
		}
		if _, err := os.Lstat(mv.Source); err == nil {
			log.Warn("skipping restore, source occupied",
				"session", s.ID,
				"source", mv.Source)
			continue
		}

		if err := MoveFile(mv.Destination, mv.Source); err != nil {
			log.Warn("restore failed",
				"session", s.ID,
				"destination", mv.Destination,
				"error", err)
			continue
		}
		restored++

		removeEmptyDirs(filepath.Dir(mv.Destination), filepath.Dir(mv.Source))
	}
	return restored
}

// removeEmptyDirs deletes dir and any emptied parents, staying strictly
// below stop. Category and month folders created solely for a batch
// disappear with the batch; the target folder itself is never touched.
func removeEmptyDirs(dir, stop string) {
	stop = filepath.Clean(stop)
	for {
		d := filepath.Clean(dir)
		if d == stop || !strings.HasPrefix(d, stop+string(os.PathSeparator)) {
			return
		}
		// Remove fails on a non-empty directory, which ends the walk.
		if err := os.Remove(d); err != nil {
			return
		}
		dir = filepath.Dir(d)
	}
}

// MoveFile moves src to dst, creating dst's directory as needed.
//
// Rename is attempted first; a cross-device rename falls back to
// copy-and-remove so target folders on different filesystems still work.
// The engine uses the same mechanics when executing a batch that undo
// uses when reversing one.
func MoveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", dst, err)
	}

	renameErr := os.Rename(src, dst)
	if renameErr == nil {
		return nil
	}

	var linkErr *os.LinkError
	if errors.As(renameErr, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
		if err := copyFile(src, dst); err != nil {
			return err
		}
		if err := os.Remove(src); err != nil {
			return fmt.Errorf("failed to remove %s after copy: %w", src, err)
		}
		return nil
	}

	return fmt.Errorf("failed to move %s: %w", src, renameErr)
}

// copyFile copies src to dst, refusing to overwrite an existing file and
// preserving the source permission bits.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", src, err)
	}

	in, err := os.Open(src) // nolint:gosec
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm()) // nolint:gosec
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return fmt.Errorf("failed to copy to %s: %w", dst, err)
	}

	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("failed to finalize %s: %w", dst, err)
	}
	return nil
}
