package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show Gitea Bridge status and health",
	Long:  "Display health, runtime status and journal statistics of a running Gitea Bridge instance",
	RunE:  runStatus,
}

var (
	statusHost    string
	statusPort    int
	statusFormat  string
	statusTimeout time.Duration
)

func init() {
	statusCmd.Flags().StringVar(&statusHost, "host", "localhost", "Gitea Bridge host")
	statusCmd.Flags().IntVar(&statusPort, "port", 3001, "Gitea Bridge port")
	statusCmd.Flags().StringVar(&statusFormat, "format", "text", "Output format (text, json)")
	statusCmd.Flags().DurationVar(&statusTimeout, "timeout", 5*time.Second, "request timeout")

	rootCmd.AddCommand(statusCmd)
}

// statusReport gathers what a running instance reports about itself
type statusReport struct {
	Health  map[string]interface{} `json:"health"`
	Ready   map[string]interface{} `json:"ready,omitempty"`
	System  map[string]interface{} `json:"system,omitempty"`
	Journal map[string]interface{} `json:"journal,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	baseURL := fmt.Sprintf("http://%s:%d", statusHost, statusPort)
	client := &http.Client{Timeout: statusTimeout}
	out := cmd.OutOrStdout()

	report, err := fetchStatus(cmd.Context(), client, baseURL)
	if err != nil {
		if statusFormat == "json" {
			writeJSON(out, map[string]interface{}{
				"status":  "unreachable",
				"error":   err.Error(),
				"healthy": false,
			})
		} else {
			fmt.Fprintf(out, "Gitea Bridge is not reachable at %s\n", baseURL)
			fmt.Fprintf(out, "Error: %v\n", err)
		}
		return fmt.Errorf("service unreachable: %w", err)
	}

	if statusFormat == "json" {
		return writeJSON(out, report)
	}
	printStatusText(out, report)
	return nil
}

// fetchStatus queries /health, which must answer, and the optional endpoints
func fetchStatus(ctx context.Context, client *http.Client, baseURL string) (*statusReport, error) {
	health, err := getJSON(ctx, client, baseURL+"/health")
	if err != nil {
		return nil, err
	}

	report := &statusReport{Health: health}
	if ready, err := getJSON(ctx, client, baseURL+"/health/ready"); err == nil {
		report.Ready = ready
	}
	if system, err := getJSON(ctx, client, baseURL+"/status"); err == nil {
		report.System = data(system)
	}
	if journal, err := getJSON(ctx, client, baseURL+"/api/events/stats"); err == nil {
		report.Journal = data(journal)
	}
	return report, nil
}

// getJSON decodes a JSON object from url regardless of the status code
func getJSON(ctx context.Context, client *http.Client, url string) (map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: not found", url)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%s: invalid response: %w", url, err)
	}
	return result, nil
}

func data(envelope map[string]interface{}) map[string]interface{} {
	if d, ok := envelope["data"].(map[string]interface{}); ok {
		return d
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(encoded))
	return err
}

func printStatusText(w io.Writer, report *statusReport) {
	fmt.Fprintf(w, "Health\n")
	fmt.Fprintf(w, "======\n")
	fmt.Fprintf(w, "Status:   %v\n", report.Health["status"])
	fmt.Fprintf(w, "Upstream: %v\n", report.Health["giteaUrl"])

	if ready, ok := report.Ready["success"].(bool); ok {
		if ready {
			fmt.Fprintf(w, "Ready:    yes (Gitea %v)\n", data(report.Ready)["gitea_version"])
		} else {
			fmt.Fprintf(w, "Ready:    no (%v)\n", report.Ready["error"])
		}
	}

	if components, ok := report.Health["components"].(map[string]interface{}); ok {
		fmt.Fprintf(w, "Components:\n")
		for _, name := range sortedKeys(components) {
			if comp, ok := components[name].(map[string]interface{}); ok {
				fmt.Fprintf(w, "  - %-12s %v\n", name+":", comp["status"])
			}
		}
	}

	if report.System != nil {
		fmt.Fprintf(w, "\nRuntime\n")
		fmt.Fprintf(w, "=======\n")
		fmt.Fprintf(w, "State:    %v\n", report.System["state"])
		if uptime, ok := report.System["uptime"].(string); ok && uptime != "" {
			fmt.Fprintf(w, "Uptime:   %s\n", uptime)
		}
		if version, ok := report.System["version"].(string); ok {
			fmt.Fprintf(w, "Version:  %s\n", version)
		}
	}

	if report.Journal != nil {
		fmt.Fprintf(w, "\nJournal\n")
		fmt.Fprintf(w, "=======\n")
		fmt.Fprintf(w, "Events:   %v\n", report.Journal["total_events"])
		fmt.Fprintf(w, "Failed:   %v\n", report.Journal["failed_events"])
	}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
