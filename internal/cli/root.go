package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/law-makers/quotes/internal/app"
	"github.com/law-makers/quotes/internal/config"
	"github.com/law-makers/quotes/internal/ui"
	"github.com/law-makers/quotes/pkg/models"
)

const version = "0.1.0"

// rootCmd represents the base command
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quotes [output-path]",
		Short: "Export every quote from quotes.toscrape.com to a CSV file",
		Long: `Quotes walks the paginated listing at quotes.toscrape.com one page at a time,
extracts the text, author and tags of every quote and writes them to a CSV file
with the header text,author,tags.

Pages are followed in order until a page no longer shows a next link. A file
ending in .json is written as a JSON array instead.`,
		Example: `  # Export to quotes.csv in the current directory
  quotes

  # Export to a custom path
  quotes out/all-quotes.csv

  # Pace requests and stop after five pages
  quotes --rps=2 --max-pages=5

  # Point at a local mirror
  quotes --base-url=http://localhost:8080/ mirror.json`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runExport,
	}

	config.RegisterFlags(cmd)
	cmd.Flags().BoolP("help", "h", false, "Help for quotes")
	cmd.Flags().Bool("version", false, "Version for quotes")
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetHelpFunc(customHelpFunc)
	cmd.SetUsageFunc(customUsageFunc)

	// Lazily initialize the application before running (avoid starting it for -h/--version)
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if GetAppFromCmd(cmd) != nil {
			return nil
		}

		cfg, err := config.Load(cmd)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			cfg.OutputPath = args[0]
		}

		a, err := app.New(cmd.Context(), cfg, app.WithLogOutput(cmd.ErrOrStderr()))
		if err != nil {
			return err
		}
		SetApp(cmd, a)
		return nil
	}

	// Ensure app is closed after the command runs
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		a := GetAppFromCmd(cmd)
		if a == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.Close(ctx)
		SetApp(cmd, nil)
	}

	return cmd
}

// Execute runs the root command with ctx and returns the process exit code.
// This is called by main.main().
func Execute(ctx context.Context) int {
	return execute(ctx, rootCmd)
}

func execute(ctx context.Context, cmd *cobra.Command) int {
	err := cmd.ExecuteContext(ctx)
	if ctx.Err() != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.Info("! Run interrupted"))
	}
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.Error("✗ "+err.Error()))
		return 1
	}
	return 0
}

func runExport(cmd *cobra.Command, args []string) error {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}
	cfg := a.Config

	// The spinner would interleave with log lines, so it only runs at the default level
	var hooks []func(models.Page)
	var progress *pageProgress
	if !cfg.JSONLog && cfg.LogLevel == config.DefaultLogLevel {
		progress = newPageProgress(cmd.ErrOrStderr())
		hooks = append(hooks, progress.Hook)
	}

	summary, err := a.Export(cmd.Context(), hooks...)
	if progress != nil {
		progress.Finish()
	}
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	log.Debug().Str("run_id", summary.RunID).Msg("Run finished")

	if summary.Truncated {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.Info(fmt.Sprintf("! Stopped at the page limit (%d), more pages were available", summary.Pages)))
	}
	if cfg.LogLevel != "error" {
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("✓ Saved %d quotes from %d pages to %s", summary.Quotes, summary.Pages, summary.Output)))
	}
	return nil
}
