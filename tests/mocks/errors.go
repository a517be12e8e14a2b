package mocks

import "errors"

var errMockClosed = errors.New("mock endpoint closed")
