package http_server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/missionmap/tileserver/pkg/config"
	"github.com/missionmap/tileserver/pkg/logger"
)

// ErrNoAvailablePort is returned by Start when every candidate port in the
// configured range is already bound. This is terminal for the server.
var ErrNoAvailablePort = errors.New("no available port in the configured range")

// Server is a local HTTP server that picks its own port. The map renderer
// is only told where to connect after Start returns, so binding is
// synchronous while serving runs in the background.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	host       string
	firstPort  int
	attempts   int
	port       int
	notify     chan error
	logger     logger.Logger
}

func New(cfg config.Server, handler http.Handler, l logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		host:      cfg.Host,
		firstPort: cfg.Port,
		attempts:  cfg.PortAttempts,
		notify:    make(chan error, 1),
		logger:    l,
	}
}

// Start binds the first free port in [firstPort, firstPort+attempts) and
// begins serving in the background. It returns the bound port so the owner
// can construct tile and resource URLs.
func (s *Server) Start() (int, error) {
	for port := s.firstPort; port < s.firstPort+s.attempts; port++ {
		addr := net.JoinHostPort(s.host, fmt.Sprintf("%d", port))
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			s.logger.Debug("port unavailable, trying next", "addr", addr, "error", err)
			continue
		}

		s.listener = ln
		s.port = port
		s.httpServer.Addr = addr

		go func() {
			s.notify <- s.httpServer.Serve(ln)
			close(s.notify)
		}()

		return port, nil
	}

	return 0, fmt.Errorf("%w: %s ports %d-%d", ErrNoAvailablePort,
		s.host, s.firstPort, s.firstPort+s.attempts-1)
}

// Port returns the bound port. Only meaningful after Start succeeded.
func (s *Server) Port() int {
	return s.port
}

// Notify reports the result of Serve once the server stops.
func (s *Server) Notify() <-chan error {
	return s.notify
}

// Shutdown stops accepting new connections and drains in-flight ones until
// ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
