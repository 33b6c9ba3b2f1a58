package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/pders01/slyde/internal/search"
	"github.com/pders01/slyde/internal/slideshow"
	"github.com/pders01/slyde/internal/storage"
	"github.com/pders01/slyde/internal/tui"
)

const timeLayout = "2006-01-02 15:04"

func newRecentsCmd(opts *rootOptions) *cobra.Command {
	var (
		limit  int
		offset int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "recents",
		Short: "List recently viewed projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.open()
			if err != nil {
				return err
			}
			defer rt.Close()

			projects, err := rt.store.ListRecents(limit, offset)
			if err != nil {
				return fmt.Errorf("listing recents: %w", err)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), projects)
			}
			writeProjects(cmd.OutOrStdout(), projects, rt.slides.BaseURL(), tui.MsgNoRecents)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of projects (0 for all)")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of projects to skip")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")

	return cmd
}

func newFavoritesCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "List favorite projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.open()
			if err != nil {
				return err
			}
			defer rt.Close()

			projects, err := rt.store.ListFavorites()
			if err != nil {
				return fmt.Errorf("listing favorites: %w", err)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), projects)
			}
			writeProjects(cmd.OutOrStdout(), projects, rt.slides.BaseURL(), tui.MsgNoFavorites)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")

	return cmd
}

func newFavoriteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "favorite <articleId>",
		Short:   "Toggle the favorite flag of a viewed project",
		Example: `  slyde favorite 1012345`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.open()
			if err != nil {
				return err
			}
			defer rt.Close()

			id := strings.TrimSpace(args[0])
			fav, err := rt.store.ToggleFavorite(id)
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("project %s has not been viewed yet: %w", id, err)
			}
			if err != nil {
				return fmt.Errorf("toggling favorite: %w", err)
			}

			title := id
			if p, err := rt.store.GetProject(id); err == nil && p.Title != "" {
				title = p.Title
			}
			fmt.Fprintln(cmd.OutOrStdout(), tui.MsgFavorite(title, fav))
			return nil
		},
	}
}

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:     "search <query>",
		Short:   "Search viewed projects by title or article id",
		Example: `  slyde search casa azul`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.open()
			if err != nil {
				return err
			}
			defer rt.Close()

			results, err := rt.searcher.Search(strings.Join(args, " "), limit)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), results)
			}
			writeResults(cmd.OutOrStdout(), results, rt.slides.BaseURL())
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of results")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")

	return cmd
}

func newProjectTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(tui.MutedColor)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tui.HeaderStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...)
}

func favoriteMark(p *storage.Project) string {
	if p.IsFavorite {
		return "★"
	}
	return ""
}

func slideshowLink(baseURL string, p *storage.Project) string {
	return slideshow.BuildSlideshowURL(baseURL, p.ArticleID, p.Nonce)
}

func writeProjects(w io.Writer, projects []*storage.Project, baseURL, empty string) {
	if len(projects) == 0 {
		fmt.Fprintln(w, empty)
		return
	}

	t := newProjectTable("", "ID", "TITLE", "VIEWED", "LINK")
	for _, p := range projects {
		t.Row(favoriteMark(p), p.ArticleID, p.Title, p.ViewedAt.Local().Format(timeLayout), slideshowLink(baseURL, p))
	}
	fmt.Fprintln(w, t.String())
}

func writeResults(w io.Writer, results []*search.Result, baseURL string) {
	if len(results) == 0 {
		fmt.Fprintln(w, tui.MsgNoResults)
		return
	}

	t := newProjectTable("", "ID", "TITLE", "SCORE", "LINK")
	for _, r := range results {
		p := r.Project
		t.Row(favoriteMark(p), p.ArticleID, p.Title, strconv.FormatFloat(r.Score, 'f', 2, 64), slideshowLink(baseURL, p))
	}
	fmt.Fprintln(w, t.String())
	fmt.Fprintln(w, tui.MsgResultsCount(len(results)))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
