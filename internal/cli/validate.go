package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/originphp/plugin-installer/internal/composer"
)

var validateCmd = &cobra.Command{
	Use:   "validate <package-dir>",
	Short: "Check a package's composer.json against the schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := filepath.Join(args[0], composer.FileName)

	result, err := composer.ValidateFile(path)
	if err != nil {
		return fmt.Errorf("validating %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	if result.Valid {
		fmt.Fprintf(out, "  ✓ %s is valid\n", path)
		return nil
	}

	fmt.Fprintf(out, "  ✗ %s\n", path)
	for _, issue := range result.Issues {
		loc := issue.Path
		if loc == "" {
			loc = "/"
		}
		fmt.Fprintf(out, "      %s: %s\n", loc, issue.Message)
	}
	return fmt.Errorf("%s has %d schema issue(s)", path, len(result.Issues))
}
