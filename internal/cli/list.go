package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/originphp/plugin-installer/internal/tracker"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked plugins",
	Long:  `List every plugin recorded in the project's plugin registry, in file order.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	p, err := openProject()
	if err != nil {
		return err
	}

	entries, err := p.tracker.Entries()
	if err != nil {
		return err
	}

	if listJSON {
		return printListJSON(cmd, entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No plugins installed yet.")
		return nil
	}
	return printListTable(cmd, entries, filepath.Base(p.tracker.Path()))
}

func printListTable(cmd *cobra.Command, entries []tracker.Entry, registry string) error {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Plugin", "Path"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.Name, e.Path})
	}
	style := table.StyleLight
	style.Options.DrawBorder = false
	t.SetStyle(style)
	t.Render()

	printer := message.NewPrinter(language.English)
	printer.Fprintf(cmd.OutOrStdout(), "\n%d plugin(s) tracked in %s\n", len(entries), registry)
	return nil
}

func printListJSON(cmd *cobra.Command, entries []tracker.Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
