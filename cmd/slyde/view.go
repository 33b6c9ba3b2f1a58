package main

import (
	"fmt"
	"regexp"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/slyde/internal/slideshow"
	"github.com/pders01/slyde/internal/tui"
)

var shareIDPattern = regexp.MustCompile(`^[0-9]+-[0-9A-Za-z]+$`)

func newViewCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "view [url|share-id]",
		Short: "Open the slideshow viewer",
		Long: `Opens the interactive viewer. Given a project URL, a slideshow URL or a
share id such as 1012345-5f3a9c, that slideshow is loaded right away.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runViewer(cmd, opts, args)
		},
	}
}

func runViewer(cmd *cobra.Command, opts *rootOptions, args []string) error {
	rt, err := opts.open()
	if err != nil {
		return err
	}
	defer rt.Close()

	if !opts.quiet {
		tui.ShowBanner(Version)
	}

	app := tui.NewApp(rt.cfg, rt.slides, rt.store, rt.searcher)
	if len(args) == 1 {
		app.SetInitialURL(initialURL(rt.slides.BaseURL(), args[0]))
	}

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		if cmd.Context().Err() != nil {
			return nil
		}
		return fmt.Errorf("running viewer: %w", err)
	}
	return nil
}

// initialURL accepts a share id in place of a URL.
func initialURL(baseURL, arg string) string {
	arg = strings.TrimSpace(arg)
	if !shareIDPattern.MatchString(arg) {
		return arg
	}
	articleID, nonce, err := slideshow.ParseShareID(arg)
	if err != nil {
		return arg
	}
	return slideshow.BuildSlideshowURL(baseURL, articleID, nonce)
}
