package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Bitlatte/labsite/internal/config"
	"github.com/Bitlatte/labsite/internal/logger"
	"github.com/Bitlatte/labsite/internal/report"
	"github.com/Bitlatte/labsite/internal/site"
)

var (
	showReport bool
	strict     bool
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Builds the site and fills every page's placeholders",
	Long: `The build command copies static assets, collects the HTML and Markdown
pages under the content directory (Markdown is rendered through the layouts),
then fills each page's people, publications, research, hero, about, header and
footer placeholders from the published data and writes the result to the
output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(cmd.Context(), cmd.OutOrStdout(), appConfig)
	},
}

func runBuild(ctx context.Context, w io.Writer, cfg config.Config) error {
	log := logger.FromContext(ctx)
	log.Info("starting build", "content", cfg.ContentDir, "output", cfg.OutputDir)

	reports, err := site.NewBuilder(cfg).Build(ctx)
	if err != nil {
		return err
	}

	if showReport {
		if err := report.Write(w, reports); err != nil {
			return err
		}
	}

	if summary := report.Summarize(reports); strict && summary.Failed > 0 {
		return fmt.Errorf("%d loaders failed", summary.Failed)
	}
	return nil
}

func init() {
	buildCmd.Flags().BoolVar(&showReport, "report", true, "print a table of loader results")
	buildCmd.Flags().BoolVar(&strict, "strict", false, "fail when any loader fails")
	rootCmd.AddCommand(buildCmd)
}
