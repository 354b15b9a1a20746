package control

import (
	"github.com/pkg/errors"
)

var (
	ErrSessionNil = errors.New("no session attached to the control server")
)
