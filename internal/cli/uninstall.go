package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <package-dir>...",
	Short: "Remove installed packages",
	Long: `Remove packages from the project. Each argument is a directory holding the package's
composer.json, either the installed copy or its source.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUninstall,
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
}

func runUninstall(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	for _, dir := range args {
		pkg, err := loadPackage(dir)
		if err != nil {
			return err
		}

		if err := p.manager.Uninstall(cmd.Context(), pkg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", pkg.Name)
	}
	return nil
}
