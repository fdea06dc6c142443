//go:build !unix

package system

import "errors"

func AvailableSpace(path string) (uint64, error) {
	return 0, errors.New("disk space check not supported on this platform")
}
