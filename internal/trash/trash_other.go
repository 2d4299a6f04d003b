//go:build !linux && !darwin && !windows

package trash

func getPath() string { return "" }

func isAvailable() bool { return false }

func moveToTrash(string) error { return ErrUnavailable }

func displayName() string { return "Trash" }
