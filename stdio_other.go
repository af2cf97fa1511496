//go:build !unix && !windows

package main

import "errors"

func redirectStdIO(path string) error {
	if path == "" {
		return nil
	}
	return errors.New("stdio redirect is not supported on this platform")
}
