//go:build !linux && !darwin && !windows

package app

import "errors"

var errNoOpener = errors.New("opening files is not supported on this platform")

func platformOpen(string) error   { return errNoOpener }
func platformReveal(string) error { return errNoOpener }
