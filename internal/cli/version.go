package cli

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/originphp/plugin-installer/internal/branding"
)

var versionFormat string

// buildInfo describes the running binary. Version, commit and date are
// injected through ldflags.
type buildInfo struct {
	Version     string `json:"version"`
	Commit      string `json:"commit"`
	Date        string `json:"date"`
	GoVersion   string `json:"goVersion"`
	Platform    string `json:"platform"`
	PackageType string `json:"packageType"`
}

func currentBuild() buildInfo {
	return buildInfo{
		Version:     buildVersion,
		Commit:      buildCommit,
		Date:        buildDate,
		GoVersion:   runtime.Version(),
		Platform:    runtime.GOOS + "/" + runtime.GOARCH,
		PackageType: branding.PackageType(),
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().StringVarP(&versionFormat, "output", "o", "text", "Output format: text, short or json")
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := currentBuild()
	out := cmd.OutOrStdout()

	switch versionFormat {
	case "short":
		fmt.Fprintln(out, info.Version)
	case "json":
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling build info: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case "text":
		fmt.Fprintf(out, "%s version %s (commit: %s, built: %s)\n", branding.CLIName(), info.Version, info.Commit, info.Date)
		fmt.Fprintf(out, "%s %s, installs %q packages\n", info.GoVersion, info.Platform, info.PackageType)
	default:
		return fmt.Errorf("unknown output format %q (want text, short or json)", versionFormat)
	}
	return nil
}
