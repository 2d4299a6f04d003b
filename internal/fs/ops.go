package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/otiai10/copy"
)

// Common file permission modes
const (
	DirPermission  = 0o755
	FilePermission = 0o644
)

// ErrDestinationExists is returned by Copy and Move instead of overwriting.
var ErrDestinationExists = errors.New("destination already exists")

// Exists checks if a path exists on the filesystem.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// IsDir reports whether path is an existing directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// SplitNameExt splits "report.final.pdf" into ("report.final", ".pdf").
// Dotfiles such as ".env" have no extension.
func SplitNameExt(name string) (string, string) {
	ext := filepath.Ext(name)
	if ext == name {
		return name, ""
	}
	return strings.TrimSuffix(name, ext), ext
}

// UniqueDestPath returns dir/base, or the first of dir/name_1.ext,
// dir/name_2.ext, ... that does not exist yet.
func UniqueDestPath(dir, base string) string {
	dst := filepath.Join(dir, base)
	name, ext := SplitNameExt(base)
	for i := 1; Exists(dst); i++ {
		dst = filepath.Join(dir, name+"_"+strconv.Itoa(i)+ext)
	}
	return dst
}

// IsSubpath reports whether target lies strictly inside base.
func IsSubpath(base, target string) bool {
	rel, err := filepath.Rel(filepath.Clean(base), filepath.Clean(target))
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// EnsureDir creates path and any missing parents.
func EnsureDir(path string) error {
	return os.MkdirAll(path, DirPermission)
}

// EnsureFile creates an empty file at path, creating parent directories as
// needed. An existing file is left untouched.
func EnsureFile(path string) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, FilePermission)
	if err != nil {
		return err
	}
	return f.Close()
}

// Remove permanently deletes a file or directory tree.
func Remove(path string) error {
	if _, err := os.Lstat(path); err != nil {
		return err
	}
	return os.RemoveAll(path)
}

var copyOptions = copy.Options{
	OnSymlink: func(string) copy.SymlinkAction {
		return copy.Shallow
	},
	PreserveTimes: true,
}

// Copy duplicates a file or directory tree. It never overwrites dst.
func Copy(src, dst string) error {
	if Exists(dst) {
		return fmt.Errorf("copy %s: %w", dst, ErrDestinationExists)
	}
	if err := EnsureDir(filepath.Dir(dst)); err != nil {
		return err
	}
	return copy.Copy(src, dst, copyOptions)
}

// SameFile reports whether a and b name the same filesystem entry, as with
// two spellings of one name on a case-insensitive filesystem.
func SameFile(a, b string) bool {
	ia, err := os.Lstat(a)
	if err != nil {
		return false
	}
	ib, err := os.Lstat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ia, ib)
}

// Move renames src to dst without overwriting. Moves across devices fall
// back to copy-then-remove. A rename that only changes letter case goes
// through a temporary name so case-insensitive filesystems accept it.
func Move(src, dst string) error {
	if src == dst {
		return nil
	}
	caseOnly := strings.EqualFold(src, dst)
	if Exists(dst) && !(caseOnly && SameFile(src, dst)) {
		return fmt.Errorf("move %s: %w", dst, ErrDestinationExists)
	}
	if err := EnsureDir(filepath.Dir(dst)); err != nil {
		return err
	}

	if caseOnly {
		tmp := src + ".sidetree-rename-tmp"
		if err := os.Rename(src, tmp); err != nil {
			return fmt.Errorf("rename failed: %w", err)
		}
		if err := os.Rename(tmp, dst); err != nil {
			_ = os.Rename(tmp, src)
			return fmt.Errorf("rename failed: %w", err)
		}
		return nil
	}

	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}
	if err := copy.Copy(src, dst, copyOptions); err != nil {
		return err
	}
	return os.RemoveAll(src)
}
