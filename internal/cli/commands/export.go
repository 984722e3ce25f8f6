package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/oeelens/oee-apiserver/internal/cli/ui"
)

var (
	exportServer  string
	exportMachine string
	exportQuery   string
	exportOutput  string
)

// exportCmd runs a one-shot query and saves the answer as a PDF report
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "run a query and save the report as PDF",
	Long: `Run a single analysis query and save the generated report,
including its charts, as a PDF document.

This is the non-interactive counterpart of /export inside the chat.`,
	Example: `  # Comprehensive monthly report
  $ oeectl export -m MC_PRESS_9 -q "give me a comprehensive report for january 2025"

  # Choose the output file
  $ oeectl export -m MC_PRESS_9 -q "energy consumption last month" -o energy.pdf`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportServer, "server", "s", "", "API server address (defaults to the configured server)")
	exportCmd.Flags().StringVarP(&exportMachine, "machine", "m", "", "machine to analyze (required)")
	exportCmd.Flags().StringVarP(&exportQuery, "query", "q", "", "analysis query (required)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default oee_report_<timestamp>.pdf)")
	exportCmd.MarkFlagRequired("machine")
	exportCmd.MarkFlagRequired("query")
	exportCmd.SilenceUsage = true
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	apiClient, err := newAPIClient(exportServer)
	if err != nil {
		return err
	}

	ui.PrintInfo("Analyzing %s...", exportMachine)
	answer, err := apiClient.Chat(ctx, exportQuery, exportMachine)
	if err != nil {
		ui.PrintError("query failed: %v", err)
		return fmt.Errorf("query failed")
	}
	if answer.Type == "error" {
		ui.PrintError("%s", answer.Response)
		return fmt.Errorf("query returned no data")
	}

	ui.PrintInfo("Rendering PDF...")
	pdf, err := apiClient.ExportPDF(ctx, answer.Response, answer.Charts)
	if err != nil {
		ui.PrintError("export failed: %v", err)
		return fmt.Errorf("export failed")
	}

	output := exportOutput
	if output == "" {
		output = fmt.Sprintf("oee_report_%s.pdf", time.Now().Format("20060102_150405"))
	}

	if err := os.WriteFile(output, pdf, 0644); err != nil {
		ui.PrintError("failed to write %s: %v", output, err)
		return fmt.Errorf("write failed")
	}

	ui.PrintSuccess("Report saved to %s (%d chart(s))", output, len(answer.Charts))
	return nil
}
