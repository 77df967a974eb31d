package cli

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fieldmark-ai/fieldmark/internal/patterns"
	"github.com/fieldmark-ai/fieldmark/internal/vars"
)

// NewPatternsCmd creates a command that loads a pattern repository and
// lists what it registers, as a diagnostic aid for pattern authors.
func NewPatternsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patterns [file_or_directory...]",
		Short: "Load pattern files and list the registered screens",
		Long: `Load one or more pattern definition files or directories and list the
screens, element categories and template counts they register. Duplicate
screen codes are reported the same way the engine treats them at startup:
last definition wins.`,
		RunE: runPatterns,
	}
}

func runPatterns(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("please specify at least one file or directory to load")
	}

	store := vars.NewStore()
	repo := patterns.NewRepository(store, Logger)
	if err := repo.Load(args...); err != nil {
		return err
	}

	for _, code := range repo.Screens() {
		screen, _ := repo.Screen(code)
		fmt.Printf("\n%s\n", color.CyanString("Screen: "+code))

		for _, category := range sortedKeys(screen.Fields) {
			count := len(patterns.SplitTemplates(screen.Fields[category]))
			fmt.Printf("  %s %s (%d template(s))\n", color.GreenString("field"), category, count)
		}
		for _, name := range sortedKeys(screen.Sections) {
			fmt.Printf("  %s %s\n", color.YellowString("section"), name)
		}
		for _, name := range sortedKeys(screen.Locations) {
			fmt.Printf("  %s %s\n", color.YellowString("location"), name)
		}
		if len(screen.ScrollTargets) > 0 {
			fmt.Printf("  %s %d target(s)\n", color.MagentaString("scroll"), len(screen.ScrollTargets))
		}
	}

	fmt.Printf("\n%s %d screen(s) registered\n", color.GreenString("✓"), len(repo.Screens()))
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
