package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// File is a Source backed by a file on disk
type File struct {
	path string
	f    *os.File
	info os.FileInfo // identity of the open handle
}

// Open opens path for reading. Missing files and access failures are
// classified as ErrNotFound and ErrPermissionDenied.
func Open(path string) (*File, error) {
	f, info, err := openFile(path)
	if err != nil {
		return nil, err
	}
	return &File{path: path, f: f, info: info}, nil
}

func openFile(path string) (*os.File, os.FileInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, classify(path, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, nil, &OpenError{Path: path, Err: errors.New("is a directory")}
	}
	return f, info, nil
}

func classify(path string, err error) error {
	oe := &OpenError{Path: path, Err: err}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		oe.Kind = ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		oe.Kind = ErrPermissionDenied
	}
	return oe
}

// ReadAt reads from the open handle
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	return f.f.ReadAt(p, off)
}

// Size returns the size of the open handle, not of whatever the path names now
func (f *File) Size() (int64, error) {
	info, err := f.f.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", f.path, err)
	}
	return info.Size(), nil
}

// Name returns the path the file was opened with
func (f *File) Name() string {
	return f.path
}

// Rotated reports whether the path now names a different file. A path that
// is temporarily missing, as between rename and create, is not a rotation.
func (f *File) Rotated() (bool, error) {
	info, err := os.Stat(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", f.path, err)
	}
	return !os.SameFile(f.info, info), nil
}

// Reopen closes the current handle and opens the file now at the path
func (f *File) Reopen() error {
	nf, info, err := openFile(f.path)
	if err != nil {
		return err
	}
	if err := f.f.Close(); err != nil {
		_ = nf.Close()
		return fmt.Errorf("failed to close previous handle: %w", err)
	}
	f.f = nf
	f.info = info
	return nil
}

// Close closes the open handle
func (f *File) Close() error {
	return f.f.Close()
}
