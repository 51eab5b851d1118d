package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haskel/calburn/internal/server"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Get server status, loaded model and runtime metrics",
	Long:  `Query the running calburn server for the loaded model, artifact files and process metrics.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	client := NewClient()

	data, status, err := client.Get("/status")
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	if status != http.StatusOK {
		return apiError(status, data)
	}

	if jsonOut {
		fmt.Println(string(data))
		return nil
	}

	var result server.StatusResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	printStatus(os.Stdout, &result)
	return nil
}

func printStatus(w io.Writer, s *server.StatusResponse) {
	fmt.Fprintf(w, "=== %s %s ===\n", s.Name, s.Version)
	fmt.Fprintf(w, "Uptime: %ds\n", s.UptimeSec)

	cols := make([]string, len(s.Model.InputColumns))
	for i, c := range s.Model.InputColumns {
		cols[i] = string(c)
	}
	fmt.Fprintf(w, "\nModel:\n")
	fmt.Fprintf(w, "  Type:    %s\n", s.Model.Type)
	fmt.Fprintf(w, "  BMI:     %t\n", s.Model.IncludesBMI)
	fmt.Fprintf(w, "  Inputs:  %s\n", strings.Join(cols, ", "))
	fmt.Fprintf(w, "  Width:   %d\n", s.Model.OutputWidth)

	if len(s.Artifacts) > 0 {
		fmt.Fprintf(w, "\nArtifacts:\n")
		for _, a := range s.Artifacts {
			if !a.Exists {
				fmt.Fprintf(w, "  %s: missing (%s)\n", a.Name, a.Path)
				continue
			}
			fmt.Fprintf(w, "  %s: %s, %d bytes, updated %s\n",
				a.Name, a.Path, a.Size, a.UpdatedAt.Format("2006-01-02 15:04:05"))
		}
	}

	rt := s.Runtime
	if rt == nil {
		return
	}

	fmt.Fprintf(w, "\nProcess:\n")
	fmt.Fprintf(w, "  PID:        %d\n", rt.Process.PID)
	fmt.Fprintf(w, "  RSS:        %.1f MB\n", float64(rt.Process.RSSBytes)/1024/1024)
	fmt.Fprintf(w, "  CPU:        %.1f%%\n", rt.Process.CPUPercent)
	fmt.Fprintf(w, "  Threads:    %d\n", rt.Process.Threads)
	fmt.Fprintf(w, "  Goroutines: %d\n", rt.Process.Goroutines)

	fmt.Fprintf(w, "\nHost:\n")
	fmt.Fprintf(w, "  CPU:    %.1f%% (%d cores)\n", rt.CPU.UsagePercent, rt.CPU.Cores)
	fmt.Fprintf(w, "  Memory: %.1f%% (%.1f / %.1f GB)\n", rt.Memory.UsagePercent,
		float64(rt.Memory.UsedBytes)/1024/1024/1024,
		float64(rt.Memory.TotalBytes)/1024/1024/1024)

	paths := make([]string, 0, len(rt.Storage))
	for path := range rt.Storage {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		d := rt.Storage[path]
		free := float64(d.TotalBytes-d.UsedBytes) / 1024 / 1024 / 1024
		total := float64(d.TotalBytes) / 1024 / 1024 / 1024
		fmt.Fprintf(w, "  Disk %s: %.1f GB free / %.1f GB total\n", path, free, total)
	}
}
