package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pders01/slyde/internal/tui"
)

func newVersionCmd() *cobra.Command {
	var banner bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if banner {
				fmt.Fprintln(cmd.OutOrStdout(), tui.BannerString(Version))
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", tui.AppName, Version)
			fmt.Fprintln(cmd.OutOrStdout(), "Architecture slideshow viewer")
			fmt.Fprintln(cmd.OutOrStdout(), "github.com/pders01/slyde")
		},
	}

	cmd.Flags().BoolVarP(&banner, "banner", "b", false, "Show the startup banner")

	return cmd
}
