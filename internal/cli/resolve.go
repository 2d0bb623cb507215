package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/originphp/plugin-installer/internal/branding"
)

var resolveJSON bool

var resolveCmd = &cobra.Command{
	Use:   "resolve <package-dir>",
	Short: "Show the plugin name and install path of a package",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(resolveCmd)
}

type resolveOutput struct {
	Package     string `json:"package"`
	Type        string `json:"type"`
	Plugin      string `json:"plugin"`
	InstallPath string `json:"installPath"`
}

func runResolve(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	pkg, err := loadPackage(args[0])
	if err != nil {
		return err
	}
	if !p.installer.Supports(pkg.PackageType()) {
		return fmt.Errorf("%s is of type %q, not %q", pkg.Name, pkg.PackageType(), branding.PackageType())
	}

	plugin, err := p.installer.Resolve(pkg)
	if err != nil {
		return err
	}
	out := resolveOutput{
		Package:     pkg.Name,
		Type:        pkg.PackageType(),
		Plugin:      plugin.Name,
		InstallPath: p.tracker.Normalize(plugin.InstallPath),
	}

	if resolveJSON {
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Package:      %s\n", out.Package)
	fmt.Fprintf(cmd.OutOrStdout(), "Plugin:       %s\n", out.Plugin)
	fmt.Fprintf(cmd.OutOrStdout(), "Install path: %s\n", out.InstallPath)
	return nil
}
