// Package fileval screens files before they are tokenized.
//
// Files that are clearly not PHP sources, such as binary blobs or generated
// files above the configured size limit, are skipped rather than reported as
// failures.
package fileval

import (
	"bytes"
	"errors"
	"fmt"
	"os"
)

// sniffLen is how many leading bytes are searched for a NUL byte.
const sniffLen = 8000

// FileTooLargeError is returned when a file exceeds the configured maximum size.
type FileTooLargeError struct {
	Path    string
	Size    int64
	MaxSize int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf(
		"file too large (%d > %d bytes); increase [finder] max-file-size in .polish.toml to override",
		e.Size, e.MaxSize,
	)
}

// BinaryFileError is returned when a file looks like binary data.
type BinaryFileError struct {
	Path string
}

func (e *BinaryFileError) Error() string {
	return "file looks binary (contains a NUL byte)"
}

// CheckSize stats path and rejects it when maxSize > 0 and the file is larger.
func CheckSize(path string, maxSize int64) error {
	if maxSize <= 0 {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() > maxSize {
		return &FileTooLargeError{Path: path, Size: info.Size(), MaxSize: maxSize}
	}
	return nil
}

// CheckContent rejects content with a NUL byte in its first 8000 bytes.
func CheckContent(path string, data []byte) error {
	if bytes.IndexByte(data[:min(len(data), sniffLen)], 0) >= 0 {
		return &BinaryFileError{Path: path}
	}
	return nil
}

// IsSkip reports whether err, or an error it wraps, is a screening error.
func IsSkip(err error) bool {
	var tooLarge *FileTooLargeError
	var binary *BinaryFileError
	return errors.As(err, &tooLarge) || errors.As(err, &binary)
}
