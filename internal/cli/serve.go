package cli

import (
	"github.com/spf13/cobra"

	"github.com/lvillar/resumepdf/internal/httpapi"
	"github.com/lvillar/resumepdf/mcp"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API:

  GET  /healthz
  POST /generate-form-simple      profile + theme/layout -> application/pdf
  GET  /api/themes, /api/layouts, /api/blocks
  /api/profiles                   stored profile CRUD`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.cfg.Server.Addr
			}
			gen, err := c.generator()
			if err != nil {
				return err
			}
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			srv := httpapi.New(gen, st,
				httpapi.WithLogger(c.Logger),
				httpapi.WithTimeout(c.cfg.Server.Timeout),
			)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")

	return cmd
}

func (c *CLI) mcpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP tool server on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := c.generator()
			if err != nil {
				return err
			}
			s := mcp.NewServer(
				mcp.WithIO(c.stdin, cmd.OutOrStdout()),
				mcp.WithLogger(c.Logger),
				mcp.WithVersion(version),
			)
			mcp.RegisterDefaultTools(s, gen)
			mcp.RegisterDefaultResources(s, gen)
			return s.Run(cmd.Context())
		},
	}
}
