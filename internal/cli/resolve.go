package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fieldmark-ai/fieldmark/internal/config"
	"github.com/fieldmark-ai/fieldmark/internal/patterns"
	"github.com/fieldmark-ai/fieldmark/internal/playwright"
	"github.com/fieldmark-ai/fieldmark/internal/resolver"
	"github.com/fieldmark-ai/fieldmark/internal/vars"
)

// NewResolveCmd creates a command that resolves one identifier against a
// live page, for debugging pattern files.
func NewResolveCmd() *cobra.Command {
	var (
		configPath   string
		patternPaths []string
		url          string
		screen       string
		category     string
		timeout      time.Duration
		headed       bool
	)

	cmd := &cobra.Command{
		Use:   "resolve [identifier]",
		Short: "Resolve a field identifier against a live page",
		Long: `Resolve a field identifier into a chained locator against a live browser
page, printing the locator that matched or the candidates that were tried.

Examples:
  fieldmark resolve --patterns ./patterns --url https://example.com/login \
      --screen loginPage --category input "Username"
  fieldmark resolve --patterns ./patterns --url https://example.com \
      --category button "{{Main Content}} {Login Form} Submit[2]"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, args[0], configPath, patternPaths, url, screen, category, timeout, headed)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to the engine configuration file")
	cmd.Flags().StringSliceVar(&patternPaths, "patterns", nil, "Pattern definition files or directories")
	cmd.Flags().StringVar(&url, "url", "", "Page URL to resolve against")
	cmd.Flags().StringVar(&screen, "screen", "", "Screen code override")
	cmd.Flags().StringVar(&category, "category", "", "Element category (e.g. input, button, link)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Resolution timeout (default from config)")
	cmd.Flags().BoolVar(&headed, "headed", false, "Run the browser with a visible window")

	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func runResolve(cmd *cobra.Command, rawIdentifier, configPath string, patternPaths []string, url, screen, category string, timeout time.Duration, headed bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if !cfg.Enabled {
		return errors.New("pattern resolution is disabled in the configuration")
	}

	paths := patternPaths
	if len(paths) == 0 {
		paths = cfg.PatternPaths
	}
	if len(paths) == 0 {
		return errors.New("no pattern paths given; use --patterns or pattern_paths in the config file")
	}

	store := vars.NewStore()
	cfg.Bind(store)
	repo := patterns.NewRepository(store, Logger)
	if err := repo.Load(paths...); err != nil {
		return err
	}

	session, err := playwright.NewSession(!headed)
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			Logger.Warn("failed to close browser session", "error", err)
		}
	}()

	if err := session.Navigate(url); err != nil {
		return err
	}

	engine := resolver.New(store, repo, playwright.NewAdapter(session.Page()), cfg, Logger)
	engine.BindScreenForURL(url)

	locator, failure := engine.Resolve(cmd.Context(), category, rawIdentifier, resolver.Options{
		Screen:  screen,
		Timeout: timeout,
	})
	if failure != nil {
		fmt.Printf("%s %s\n", color.RedString("✗"), failure.Reason)
		for _, candidate := range failure.Candidates {
			fmt.Printf("  tried: %s\n", candidate)
		}
		return failure
	}

	fmt.Printf("%s %s\n", color.GreenString("✓"), locator)
	return nil
}
