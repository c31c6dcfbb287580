//go:build unix

package sampler

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

func isNotFound(err error) bool {
	return errors.Is(err, unix.ESRCH) || errors.Is(err, os.ErrProcessDone)
}

func isPermission(err error) bool {
	return errors.Is(err, unix.EPERM) || errors.Is(err, unix.EACCES)
}
