package errors

import (
	"fmt"
)

var (
	ErrNotFound           = fmt.Errorf("not found")
	ErrDuplicate          = fmt.Errorf("duplicate")
	ErrInvalidInput       = fmt.Errorf("invalid input")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
)
