//go:build !unix

package sampler

import (
	"errors"
	"os"
)

func isNotFound(err error) bool {
	return errors.Is(err, os.ErrProcessDone) || errors.Is(err, os.ErrNotExist)
}

func isPermission(err error) bool {
	return errors.Is(err, os.ErrPermission)
}
