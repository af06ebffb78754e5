package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/pods/pkg/runner/mcp"
)

func addMCP(topLevel *cobra.Command) {
	var (
		transport string
		httpCfg   mcp.HTTPConfig
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "start the Model Context Protocol server",
		Long: `Launch an MCP server that exposes the episode pages, queue reordering and
list windowing through the Model Context Protocol. Over http, /healthz reports
queue saves that are still pending or failed.`,
		Example: `
pods mcp --transport stdio
pods mcp --http-port 0
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := mcp.ParseTransport(transport)
			if err != nil {
				return err
			}
			// stdout is the protocol stream under stdio.
			s, err := newSession(t == mcp.TransportStdio)
			if err != nil {
				return err
			}
			defer s.Close()

			httpCfg.OnListening = func(url string) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "MCP HTTP server listening on %s\n", url)
			}
			runner := mcp.Runner{
				App:       s.Service,
				Logger:    s.Logger,
				Name:      "pods",
				Version:   Version,
				Transport: t,
				HTTP:      httpCfg,
			}
			return runner.Do(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&transport, "transport", string(mcp.TransportHTTP), "transport to use: http or stdio")
	cmd.Flags().StringVar(&httpCfg.Host, "http-host", "127.0.0.1", "host/interface for HTTP transport")
	cmd.Flags().IntVar(&httpCfg.Port, "http-port", 8080, "port for HTTP transport (use 0 for random)")
	cmd.Flags().StringVar(&httpCfg.Path, "http-path", "/mcp", "HTTP endpoint path")
	cmd.Flags().StringVar(&httpCfg.Cert, "http-tls-cert", "", "TLS certificate file for HTTPS")
	cmd.Flags().StringVar(&httpCfg.Key, "http-tls-key", "", "TLS private key file for HTTPS")

	topLevel.AddCommand(cmd)
}
