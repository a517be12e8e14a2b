package socket

import "errors"

var (
	// ErrUnknownProvisioner 未知的供应方式
	ErrUnknownProvisioner = errors.New("unknown socket pair provisioner")
)
