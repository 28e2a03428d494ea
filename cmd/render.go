package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Bitlatte/labsite/internal/config"
	"github.com/Bitlatte/labsite/internal/fetch"
	"github.com/Bitlatte/labsite/internal/loader"
	"github.com/Bitlatte/labsite/internal/report"
)

var renderReport bool

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render <url>",
	Short: "Fetches a live page and prints it with its placeholders filled",
	Long: `The render command fetches a page from a running site, fills its
placeholders with data fetched from the same origin, and prints the resulting
HTML to standard output.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRender(cmd.Context(), args[0], cmd.OutOrStdout(), cmd.ErrOrStderr(), appConfig)
	},
}

func runRender(ctx context.Context, rawURL string, out, errOut io.Writer, cfg config.Config) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", rawURL, err)
	}

	f, err := fetch.NewHTTPFetcher(rawURL, cfg.Fetch.UserAgent, cfg.Fetch.Timeout)
	if err != nil {
		return err
	}

	pagePath := u.EscapedPath()
	if pagePath == "" {
		pagePath = "/"
	}

	raw, err := f.Fetch(ctx, pagePath)
	if err != nil {
		return fmt.Errorf("failed to fetch page: %w", err)
	}

	// page-relative data lives next to index.html
	p, err := loader.NewPage(bytes.NewReader(raw), strings.TrimSuffix(pagePath, "index.html"), f, cfg)
	if err != nil {
		return err
	}

	result := loader.Assemble(ctx, p, loader.Defaults())

	html, err := p.HTML()
	if err != nil {
		return err
	}
	if _, err := io.WriteString(out, html); err != nil {
		return err
	}

	if renderReport {
		return report.Write(errOut, []loader.Report{result})
	}
	return nil
}

func init() {
	renderCmd.Flags().BoolVar(&renderReport, "report", false, "print a table of loader results to stderr")
	rootCmd.AddCommand(renderCmd)
}
