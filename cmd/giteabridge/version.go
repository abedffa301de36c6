package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/johnnynv/gitea-bridge/internal/api"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print version information including build time and git commit",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringP("output", "o", "text", "output format (text, json)")
}

func runVersion(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	info := api.GetVersion()
	out := cmd.OutOrStdout()

	switch output {
	case "json":
		return writeJSON(out, info)
	case "text":
		fmt.Fprintln(out, info.String())
		fmt.Fprintf(out, "API:        %s\n", info.API)
		fmt.Fprintf(out, "Build Time: %s\n", info.Build)
		fmt.Fprintf(out, "Git Commit: %s\n", info.Commit)
		fmt.Fprintf(out, "Go:         %s\n", info.Runtime)
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s (supported: text, json)", output)
	}
}
