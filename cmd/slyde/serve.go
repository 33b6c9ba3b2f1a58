package main

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"github.com/pders01/slyde/internal/server"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the slideshow HTTP API",
		Long: `Starts the JSON API on the configured address.

Slideshows parsed through the API are bookmarked in the same database the
viewer uses, so recents and favorites are shared between both.`,
		Example: `  # Start server on the configured address
  slyde serve

  # Start server on a custom address
  slyde serve --addr 0.0.0.0:3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.open()
			if err != nil {
				return err
			}
			defer rt.Close()

			if addr != "" {
				rt.cfg.Server.Addr = addr
			}

			ln, err := net.Listen("tcp", rt.cfg.Server.Addr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", rt.cfg.Server.Addr, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "slyde API available at http://%s\n", ln.Addr())

			srv := server.New(rt.cfg.Server, rt.slides, rt.store, rt.searcher)
			return srv.Serve(cmd.Context(), ln)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (overrides server.addr)")

	return cmd
}
