// Package trash moves files to the platform recycle bin instead of deleting
// them outright.
package trash

import "errors"

// ErrUnavailable is returned when the platform has no usable trash location.
var ErrUnavailable = errors.New("trash is not available")

// MoveToTrash moves a file or directory to the system trash.
func MoveToTrash(path string) error {
	return moveToTrash(path)
}

// GetPath returns the path to the trash directory.
func GetPath() string {
	return getPath()
}

// IsAvailable returns true if trash functionality is available on this platform.
func IsAvailable() bool {
	return isAvailable()
}

// DisplayName returns the platform-appropriate name for the trash.
// "Trash" on macOS/Linux, "Recycle Bin" on Windows.
func DisplayName() string {
	return displayName()
}

// VerbPhrase returns the action phrase for moving to trash.
func VerbPhrase() string {
	return "Move to " + DisplayName()
}
