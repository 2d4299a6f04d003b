package ops

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/justyntemme/sidetree/internal/fs"
)

var (
	separatorRe   = regexp.MustCompile(`[\\/]+`)
	illegalNameRe = regexp.MustCompile(`[<>:"|?*\x00-\x1f]`)
)

// normalizeRelative trims input and converts either separator style to the
// host's.
func normalizeRelative(input string) string {
	return separatorRe.ReplaceAllString(strings.TrimSpace(input), string(filepath.Separator))
}

func isAbsolute(input string) bool {
	return filepath.IsAbs(input) || strings.HasPrefix(input, "/") || strings.HasPrefix(input, `\`)
}

func hasIllegalChars(rel string) bool {
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if illegalNameRe.MatchString(part) {
			return true
		}
	}
	return false
}

// isNested reports whether rel names something below its first segment.
func isNested(rel string) bool {
	return strings.Contains(rel, string(filepath.Separator))
}

// looksLikeFile classifies a leaf name: names with an extension and dotfiles
// such as ".env" are files, everything else is a folder.
func looksLikeFile(rel string) bool {
	leaf := filepath.Base(rel)
	if strings.HasPrefix(leaf, ".") {
		return len(leaf) > 1
	}
	return filepath.Ext(leaf) != ""
}

// validateNew checks a name typed for a new entry under base.
func (e *Engine) validateNew(base, input string) (string, error) {
	name := strings.TrimSpace(input)
	if name == "" {
		return "", invalid("name", ErrNameRequired)
	}
	if isAbsolute(name) {
		return "", invalid("name", ErrAbsolutePath)
	}
	rel := normalizeRelative(name)
	if e.options().CheckIllegalCharacters && hasIllegalChars(rel) {
		return "", invalid("name", ErrIllegalName)
	}
	target := filepath.Join(base, rel)
	if !fs.IsSubpath(base, target) {
		return "", invalid("name", ErrAbsolutePath)
	}
	if fs.Exists(target) {
		return "", invalid("name", ErrExists)
	}
	return target, nil
}

// validateRename checks a new name for the entry at oldPath.
func (e *Engine) validateRename(oldPath, input string) (string, error) {
	name := strings.TrimSpace(input)
	if name == "" {
		return "", invalid("name", ErrNameRequired)
	}
	if isAbsolute(name) {
		return "", invalid("name", ErrAbsolutePath)
	}
	rel := normalizeRelative(name)
	if e.options().CheckIllegalCharacters && hasIllegalChars(rel) {
		return "", invalid("name", ErrIllegalName)
	}
	parent := filepath.Dir(oldPath)
	newPath := filepath.Join(parent, rel)
	if !fs.IsSubpath(parent, newPath) {
		return "", invalid("name", ErrAbsolutePath)
	}
	if newPath == oldPath {
		return "", invalid("name", ErrUnchanged)
	}
	// A case-only rename finds the old entry itself on case-insensitive
	// filesystems. Anything else at newPath is a real collision.
	if fs.Exists(newPath) && !(strings.EqualFold(newPath, oldPath) && fs.SameFile(newPath, oldPath)) {
		return "", invalid("name", ErrExists)
	}
	return newPath, nil
}
