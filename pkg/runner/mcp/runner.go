package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/pods/pkg/app"
	"tableflip.dev/pods/pkg/geometry"
)

// Transport selects the mechanism used to expose the MCP server.
type Transport string

const (
	TransportHTTP  Transport = "http"
	TransportStdio Transport = "stdio"
)

// ParseTransport accepts "http" (also the empty string) and "stdio".
func ParseTransport(s string) (Transport, error) {
	switch t := Transport(strings.ToLower(strings.TrimSpace(s))); t {
	case "", TransportHTTP:
		return TransportHTTP, nil
	case TransportStdio:
		return TransportStdio, nil
	default:
		return "", fmt.Errorf("unsupported transport %q (expected http or stdio)", s)
	}
}

// HTTPConfig is where the streamable HTTP transport listens.
type HTTPConfig struct {
	Host string
	Port int
	Path string
	Cert string
	Key  string

	// OnListening is called with the bound URL, useful with Port 0.
	OnListening func(url string)
}

// Validate normalizes the config and rejects unusable values.
func (c *HTTPConfig) Validate() error {
	c.Host = strings.TrimSpace(c.Host)
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid http port %d", c.Port)
	}
	c.Path = strings.TrimSpace(c.Path)
	if c.Path == "" {
		c.Path = "/mcp"
	}
	if !strings.HasPrefix(c.Path, "/") {
		c.Path = "/" + c.Path
	}
	c.Cert, c.Key = strings.TrimSpace(c.Cert), strings.TrimSpace(c.Key)
	if (c.Cert == "") != (c.Key == "") {
		return errors.New("both http tls cert and key must be provided")
	}
	return nil
}

func (c HTTPConfig) addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// URL renders the address clients should use for a listener bound at a.
// Wildcard hosts are replaced by the bound IP, or loopback.
func (c HTTPConfig) URL(a net.Addr) string {
	scheme := "http"
	if c.Cert != "" {
		scheme = "https"
	}
	tcp, ok := a.(*net.TCPAddr)
	if !ok {
		return fmt.Sprintf("%s://%s%s", scheme, c.addr(), c.Path)
	}
	host := c.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
		if tcp.IP != nil && !tcp.IP.IsUnspecified() {
			host = tcp.IP.String()
		}
	}
	return fmt.Sprintf("%s://%s%s", scheme, net.JoinHostPort(host, strconv.Itoa(tcp.Port)), c.Path)
}

// Runner starts the MCP server over one transport.
type Runner struct {
	App      *app.Service
	Provider geometry.Provider
	Logger   *log.Logger
	Name     string
	Version  string

	Transport Transport
	HTTP      HTTPConfig
}

// Do serves until ctx is done (http) or stdin closes (stdio). Pending queue
// saves are awaited before it returns.
func (r Runner) Do(ctx context.Context) error {
	if r.App == nil {
		return errors.New("mcp runner requires a service")
	}
	name := r.Name
	if name == "" {
		name = "pods"
	}
	version := r.Version
	if version == "" {
		version = "dev"
	}

	srv := server.NewMCPServer(
		name+" MCP",
		version,
		server.WithResourceCapabilities(false, false),
		server.WithToolCapabilities(false),
		server.WithInstructions("List podcast pages, reorder the episode queue, and compute list windows via MCP."),
		server.WithResourceRecovery(),
		server.WithRecovery(),
	)

	svc := NewService(r.App, r.Logger)
	svc.Provider = r.Provider
	defer svc.Close()
	registerResources(srv, svc)
	registerTools(srv, svc)

	switch r.Transport {
	case "", TransportHTTP:
		return r.serveHTTP(ctx, srv, svc)
	case TransportStdio:
		return server.ServeStdio(srv)
	default:
		return fmt.Errorf("unknown MCP transport %q", r.Transport)
	}
}

// handler mounts the MCP endpoint and a /healthz report of the queue.
func (r Runner) handler(srv *server.MCPServer, svc *Service) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(r.HTTP.Path, server.NewStreamableHTTPServer(srv))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		h, err := svc.Health(req.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(h)
	})
	return mux
}

func (r Runner) serveHTTP(ctx context.Context, srv *server.MCPServer, svc *Service) error {
	if err := r.HTTP.Validate(); err != nil {
		return err
	}
	ln, err := net.Listen("tcp", r.HTTP.addr())
	if err != nil {
		return err
	}
	if r.HTTP.OnListening != nil {
		r.HTTP.OnListening(r.HTTP.URL(ln.Addr()))
	}

	httpSrv := &http.Server{Handler: r.handler(srv, svc)}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	if r.HTTP.Cert != "" {
		err = httpSrv.ServeTLS(ln, r.HTTP.Cert, r.HTTP.Key)
	} else {
		err = httpSrv.Serve(ln)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
