package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/originphp/plugin-installer/internal/composer"
)

var updateCmd = &cobra.Command{
	Use:   "update <package-dir>",
	Short: "Replace an installed package with a new copy",
	Long: `Update a package from a local directory. The installed copy found at the package's
install path is replaced; when nothing is installed there yet this is a plain install.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	target, err := loadPackage(args[0])
	if err != nil {
		return err
	}

	dest, err := p.manager.InstallPath(target)
	if err != nil {
		return err
	}
	installed, err := p.installedCopy(target, dest)
	if err != nil {
		return err
	}

	if !composer.Exists(installed) {
		if err := p.manager.Install(cmd.Context(), target); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  ✓ %s -> %s\n", target.Name, p.tracker.Normalize(dest))
		return nil
	}

	initial, err := composer.ParseDir(installed)
	if err != nil {
		return fmt.Errorf("reading installed copy of %s: %w", target.Name, err)
	}
	if err := p.manager.Update(cmd.Context(), initial, target); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "  ✓ %s %s -> %s\n", target.Name, versionLabel(initial.Version, target.Version), p.tracker.Normalize(dest))
	return nil
}

// installedCopy locates the currently installed copy of target. A tracked
// plugin is found through the registry so a changed install path still
// finds the old tree; everything else is looked up at dest.
func (p *project) installedCopy(target *composer.Package, dest string) (string, error) {
	if !p.installer.Supports(target.PackageType()) {
		return dest, nil
	}

	plugin, err := p.installer.Resolve(target)
	if err != nil {
		return "", err
	}
	tracked, ok, err := p.tracker.Lookup(plugin.Name)
	if err != nil {
		return "", err
	}
	if ok && composer.Exists(p.manager.Abs(tracked)) {
		return p.manager.Abs(tracked), nil
	}
	return dest, nil
}

func versionLabel(from, to string) string {
	if from == "" && to == "" {
		return "updated"
	}
	return fmt.Sprintf("(%s => %s)", orUnknown(from), orUnknown(to))
}

func orUnknown(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
