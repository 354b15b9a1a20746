package replay

import (
	log "github.com/rs/zerolog"
)

type SourceOptions struct {
	path   string
	logger log.Logger
}

type SourceOption func(*Source)

func WithSourcePath(path string) SourceOption {
	return func(o *Source) {
		o.path = path
	}
}

func WithSourceLogger(logger log.Logger) SourceOption {
	return func(o *Source) {
		o.logger = logger
	}
}
