// Package filebackend provides the file-handle layer underneath the store
// engine: opening the single database file (creating it if absent),
// tracking its end-of-file cursor, and performing the positioned
// reads/writes/truncation the block codec and engine need. It never
// interprets the bytes it moves — that is the block package's job.
//
// The database file has no header, footer, or magic number (§6): a
// zero-length file is a valid, empty database, and the file's own size is
// the only bookkeeping this package needs on open. There is no fsync here;
// durability beyond the OS page cache is out of scope (see the design
// notes on checksumless blocks and no fsync).
package filebackend

import (
	"os"
	"path/filepath"

	"github.com/cronvel/ukvstore/pkg/errors"
	"github.com/cronvel/ukvstore/pkg/filesys"
	"go.uber.org/zap"
)

// Backend owns the single open file handle for a database and the
// authoritative end-of-file cursor. All methods perform positioned I/O and
// never rely on, or disturb, a shared file offset.
type Backend struct {
	file *os.File
	eof  int64
	path string
	name string
	log  *zap.SugaredLogger
}

// Config holds the parameters needed to open a Backend.
type Config struct {
	Path   string
	Logger *zap.SugaredLogger
}

// Open creates the database file's parent directory if needed, opens the
// file (creating it if absent), and records its current size as the
// end-of-file cursor.
func Open(config *Config) (*Backend, error) {
	if config == nil || config.Path == "" || config.Logger == nil {
		return nil, errors.NewValidationError(
			nil, errors.ErrorCodeInvalidInput, "filebackend configuration is required",
		).WithField("config").WithRule("required").WithProvided(config)
	}

	dir := filepath.Dir(config.Path)
	if dir != "" && dir != "." {
		if err := filesys.CreateDir(dir, 0755, true); err != nil {
			return nil, errors.ClassifyDirectoryCreationError(err, dir)
		}
	}

	name := filepath.Base(config.Path)
	config.Logger.Infow("opening database file", "path", config.Path)

	file, err := os.OpenFile(config.Path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, errors.ClassifyFileOpenError(err, config.Path, name)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, errors.NewStorageError(err, errors.ErrorCodeIO, "failed to stat database file").
			WithPath(config.Path).
			WithFileName(name)
	}

	backend := &Backend{file: file, eof: stat.Size(), path: config.Path, name: name, log: config.Logger}
	config.Logger.Infow("database file opened", "path", config.Path, "size", backend.eof)
	return backend, nil
}

// EOF returns the current end-of-file cursor: the offset one past the last
// byte of the last block, and the offset a new block would be appended at.
func (b *Backend) EOF() int64 {
	return b.eof
}

// ReadAt performs a positioned read of len(buf) bytes starting at offset.
// It does not disturb the end-of-file cursor or any shared file position.
func (b *Backend) ReadAt(buf []byte, offset int64) error {
	if _, err := b.file.ReadAt(buf, offset); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to read database file").
			WithPath(b.path).
			WithFileName(b.name).
			WithOffset(offset).
			WithDetail("length", len(buf))
	}
	return nil
}

// WriteAt performs a positioned write of buf at offset. If the write
// extends past the current end-of-file cursor, the cursor advances to
// match; writes strictly within the existing file never move it backward.
func (b *Backend) WriteAt(buf []byte, offset int64) error {
	if _, err := b.file.WriteAt(buf, offset); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to write database file").
			WithPath(b.path).
			WithFileName(b.name).
			WithOffset(offset).
			WithDetail("length", len(buf))
	}

	if end := offset + int64(len(buf)); end > b.eof {
		b.eof = end
	}
	return nil
}

// Append writes buf at the current end-of-file cursor and advances the
// cursor by len(buf), returning the offset the bytes were written at.
func (b *Backend) Append(buf []byte) (int64, error) {
	offset := b.eof
	if err := b.WriteAt(buf, offset); err != nil {
		return 0, err
	}
	return offset, nil
}

// Truncate resets the database file to zero length and the end-of-file
// cursor to zero, used by Clear.
func (b *Backend) Truncate() error {
	if err := b.file.Truncate(0); err != nil {
		return errors.ClassifyTruncateError(err, b.name, b.path, 0)
	}
	b.eof = 0
	return nil
}

// Close releases the underlying file handle.
func (b *Backend) Close() error {
	if err := b.file.Close(); err != nil {
		return errors.NewStorageError(err, errors.ErrorCodeIO, "failed to close database file").
			WithPath(b.path).
			WithFileName(b.name)
	}
	return nil
}
