package control

import (
	log "github.com/rs/zerolog"

	"github.com/callsight/callprof/pkg/profile"
)

type ServerOptions struct {
	socketPath string
	session    *profile.Session
	logger     log.Logger
}

type ServerOption func(*Server)

func WithServerSocketPath(path string) ServerOption {
	return func(o *Server) {
		o.socketPath = path
	}
}

func WithServerSession(session *profile.Session) ServerOption {
	return func(o *Server) {
		o.session = session
	}
}

func WithServerLogger(logger log.Logger) ServerOption {
	return func(o *Server) {
		o.logger = logger
	}
}
