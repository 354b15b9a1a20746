package replay

import (
	"github.com/pkg/errors"
)

var (
	ErrInputPathEmpty = errors.New("no event stream path specified")
)
