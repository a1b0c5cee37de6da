// Package filesystem provides the on-disk Filesystem abstractions
// shared across the Detection Pipeline and the Build Session: a
// minimal read-only interface, an os-backed implementation, a
// sub-rooting wrapper, and a predicate-masking wrapper (used to apply
// gitignore/excluded-dir semantics without re-walking the tree).
package filesystem

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// Filesystem is the minimal read capability both the Scanner (D2,
// walking a repo tree) and the Build Session's FileSync (B4, streaming
// a repo tree to the builder) need.
type Filesystem interface {
	fs.ReadDirFS
	fs.StatFS
	Readlink(link string) (string, error)
}

// ReadFS is the even-smaller capability registry.ReadFS requires:
// read one file's content given a slash-separated path relative to the
// filesystem's root. The os-backed Filesystem from NewOsFilesystem
// satisfies this via its ReadFile method; the Filesystem interface
// itself, subFS and maskingFS do not.
type ReadFS interface {
	ReadFile(relPath string) ([]byte, error)
}

// osFilesystem is a Filesystem backed directly by the OS, rooted at a
// directory on disk.
type osFilesystem struct{ root string }

// NewOsFilesystem roots a Filesystem at an on-disk directory. Every
// path passed to its methods is slash-separated and relative to root.
func NewOsFilesystem(root string) osFilesystem {
	return osFilesystem{root: root}
}

func (o osFilesystem) Open(name string) (fs.File, error) {
	return os.Open(filepath.Join(o.root, filepath.FromSlash(name)))
}

func (o osFilesystem) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(filepath.Join(o.root, filepath.FromSlash(name)))
}

func (o osFilesystem) Stat(name string) (fs.FileInfo, error) {
	return os.Lstat(filepath.Join(o.root, filepath.FromSlash(name)))
}

func (o osFilesystem) Readlink(link string) (string, error) {
	t, err := os.Readlink(filepath.Join(o.root, filepath.FromSlash(link)))
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(t), nil
}

// ReadFile reads one file's full content, given a slash-separated path
// relative to root. This is the method registry.ReadFS needs: the
// Registry's per-manifest Detect and a build-system's ParseDependencies
// both only ever need one file's bytes, never a directory handle.
func (o osFilesystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(o.root, filepath.FromSlash(name)))
}

// subFS exposes a subdirectory of an underlying Filesystem, similar to
// chroot. Used to scope a repo-rooted Filesystem down to one service's
// directory without re-joining paths at every call site.
type subFS struct {
	root string
	fs   Filesystem
}

func NewSubFS(root string, fs Filesystem) subFS {
	return subFS{root: root, fs: fs}
}

func (o subFS) Open(name string) (fs.File, error) {
	return o.fs.Open(path.Join(o.root, name))
}

func (o subFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return o.fs.ReadDir(path.Join(o.root, name))
}

func (o subFS) Stat(name string) (fs.FileInfo, error) {
	return o.fs.Stat(path.Join(o.root, name))
}

func (o subFS) Readlink(link string) (string, error) {
	return o.fs.Readlink(path.Join(o.root, link))
}

// maskingFS hides paths a predicate reports as masked, as if they did
// not exist. Used by the Build Session's FileSync to apply gitignore
// exclusion to the context it streams to the builder, without a
// second tree walk.
type maskingFS struct {
	masked func(path string) bool
	fs     Filesystem
}

func NewMaskingFS(masked func(path string) bool, fs Filesystem) maskingFS {
	return maskingFS{masked: masked, fs: fs}
}

func (m maskingFS) Open(name string) (fs.File, error) {
	if m.masked(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return m.fs.Open(name)
}

func (m maskingFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if m.masked(name) {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}
	des, err := m.fs.ReadDir(name)
	if err != nil {
		return nil, err
	}
	result := make([]fs.DirEntry, 0, len(des))
	for _, de := range des {
		if !m.masked(path.Join(name, de.Name())) {
			result = append(result, de)
		}
	}
	return result, nil
}

func (m maskingFS) Stat(name string) (fs.FileInfo, error) {
	if m.masked(name) {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	return m.fs.Stat(name)
}

func (m maskingFS) Readlink(link string) (string, error) {
	if m.masked(link) {
		return "", &fs.PathError{Op: "readlink", Path: link, Err: fs.ErrNotExist}
	}
	return m.fs.Readlink(link)
}

// CopyFromFS copies files from the src dir on the accessor Filesystem
// to the local OS filesystem under dest. src uses slash separators;
// dest uses the OS-specific separator. Used to materialize a build
// context directory before handing it to the Build Session's FileSync
// when the source Filesystem isn't already disk-backed (a masked or
// sub-rooted view).
func CopyFromFS(root, dest string, fsys Filesystem) error {
	return fs.WalkDir(fsys, root, func(p string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(filepath.FromSlash(root), filepath.FromSlash(p))
		if err != nil {
			return err
		}
		destPath := filepath.Join(dest, rel)

		switch {
		case de.IsDir():
			return os.MkdirAll(destPath, 0o755)
		case de.Type()&fs.ModeSymlink != 0:
			target, err := fsys.Readlink(p)
			if err != nil {
				return err
			}
			return os.Symlink(target, destPath)
		case de.Type().IsRegular():
			fi, err := de.Info()
			if err != nil {
				return err
			}
			destFile, err := os.OpenFile(destPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, fi.Mode())
			if err != nil {
				return err
			}
			defer destFile.Close()

			srcFile, err := fsys.Open(p)
			if err != nil {
				return err
			}
			defer srcFile.Close()

			_, err = io.Copy(destFile, srcFile)
			return err
		default:
			return fmt.Errorf("unsupported file type: %s", de.Type().String())
		}
	})
}
