package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install <package-dir>...",
	Short: "Install packages into the project",
	Long: `Install one or more local packages. Plugin packages are placed at their resolved
install path and recorded in the plugin registry; other packages go to the vendor directory.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	for _, dir := range args {
		pkg, err := loadPackage(dir)
		if err != nil {
			return err
		}

		if err := p.manager.Install(cmd.Context(), pkg); err != nil {
			return err
		}

		dest, _ := p.manager.InstallPath(pkg)
		fmt.Fprintf(cmd.OutOrStdout(), "  ✓ %s -> %s\n", pkg.Name, p.tracker.Normalize(dest))
	}
	return nil
}
