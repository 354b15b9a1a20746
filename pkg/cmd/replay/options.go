package replay

import (
	"github.com/callsight/callprof/pkg/cmd/options"
)

type Options struct {
	input     string
	output    string
	pprofPath string

	verbose bool
	status  bool

	*options.Options
}
