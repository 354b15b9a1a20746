// Package control exposes a running profiling session over a Unix domain
// socket, so the measurement can be inspected, stopped and reported from
// outside the host process. The protocol is line based: one command per
// line, one reply line per command.
//
// Commands:
//
//	status         -> ok running=<bool> functions=<n>
//	stop           -> ok stopped
//	report [path]  -> ok saved <path> | error <reason>
//
// The session's single-writer contract still applies: the host must not
// be dispatching events while a stop or report command is served.
package control

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/callsight/callprof/internal/settings"
)

// Server accepts control connections on a Unix domain socket.
type Server struct {
	ln net.Listener

	*ServerOptions
}

func NewServer(opts ...ServerOption) (*Server, error) {
	srv := &Server{
		ServerOptions: &ServerOptions{},
	}
	for _, opt := range opts {
		opt(srv)
	}
	if srv.session == nil {
		return nil, ErrSessionNil
	}
	if srv.socketPath == "" {
		srv.socketPath = settings.SocketPath
	}
	srv.logger = srv.logger.With().Str("component", "control").Logger()

	return srv, nil
}

// Start creates the socket and begins accepting connections until the
// context is canceled or Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	// Remove socket if it already exists.
	os.Remove(s.socketPath)

	ln, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", s.socketPath)
	}
	s.ln = ln
	s.logger.Debug().Str("socket", s.socketPath).Msg("control socket listening")

	go s.acceptConnections(ctx)

	return nil
}

// Shutdown closes the listener and removes the socket file.
func (s *Server) Shutdown() error {
	if s.ln != nil {
		if err := s.ln.Close(); err != nil {
			s.logger.Debug().Err(err).Msg("error closing listener")
		}
	}

	if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to remove control socket")
	}

	return nil
}

func (s *Server) acceptConnections(ctx context.Context) {
	go func() {
		<-ctx.Done()
		s.ln.Close()
	}()

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			// Listener closed on shutdown.
			return
		}
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		reply := s.dispatch(strings.TrimSpace(scanner.Text()))
		fmt.Fprintln(conn, reply)
	}
}

func (s *Server) dispatch(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return "error empty command"
	}

	s.logger.Debug().Str("command", fields[0]).Msg("serving control command")

	switch fields[0] {
	case "status":
		return fmt.Sprintf("ok running=%t functions=%d",
			s.session.Running(), len(s.session.Snapshot()))
	case "stop":
		s.session.Stop()
		return "ok stopped"
	case "report":
		path := settings.ReportFile
		if len(fields) > 1 {
			path = fields[1]
		}
		if err := s.session.Report(path); err != nil {
			return fmt.Sprintf("error %v", err)
		}
		return fmt.Sprintf("ok saved %s", path)
	default:
		return fmt.Sprintf("error unknown command %q", fields[0])
	}
}
