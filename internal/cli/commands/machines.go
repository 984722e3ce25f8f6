package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/oeelens/oee-apiserver/internal/cli/client"
	"github.com/oeelens/oee-apiserver/internal/cli/config"
	"github.com/oeelens/oee-apiserver/internal/cli/ui"
)

var machinesServer string

// machinesCmd lists machines, or the imported files of one machine
var machinesCmd = &cobra.Command{
	Use:   "machines [machine]",
	Short: "list machines and their imported data files",
	Long: `List the machines that have imported telemetry data.

Without arguments, prints every machine known to the server. With a
machine name, prints the CSV files that were imported for it, including
the detected reporting period and the number of shift records.`,
	Example: `  # List all machines
  $ oeectl machines

  # Show the imported files of one machine
  $ oeectl machines MC_PRESS_9

  # Talk to a non-default server
  $ oeectl machines -s http://oee.factory.local:8080`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMachines,
}

func init() {
	machinesCmd.Flags().StringVarP(&machinesServer, "server", "s", "", "API server address (defaults to the configured server)")
	machinesCmd.SilenceUsage = true
}

func runMachines(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	apiClient, err := newAPIClient(machinesServer)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		return printMachineFiles(ctx, apiClient, args[0])
	}
	return printMachines(ctx, apiClient)
}

func printMachines(ctx context.Context, apiClient *client.APIClient) error {
	machines, err := apiClient.ListMachines(ctx)
	if err != nil {
		ui.PrintError("failed to list machines: %v", err)
		return fmt.Errorf("list operation failed")
	}

	if len(machines) == 0 {
		ui.PrintWarning("no machines with imported data")
		return nil
	}

	ui.PrintBold("MACHINES")
	for _, machine := range machines {
		fmt.Printf("  %s\n", machine)
	}
	fmt.Println(ui.Styles.Dim.Render(fmt.Sprintf("%d machine(s)", len(machines))))
	return nil
}

func printMachineFiles(ctx context.Context, apiClient *client.APIClient, machine string) error {
	files, err := apiClient.ListMachineFiles(ctx, machine)
	if err != nil {
		ui.PrintError("failed to list files: %v", err)
		return fmt.Errorf("list operation failed")
	}

	if len(files) == 0 {
		ui.PrintWarning("no files imported for %s", machine)
		return nil
	}

	ui.PrintBold("FILES FOR %s", machine)
	for _, f := range files {
		period := ""
		if f.Month != "" {
			period = fmt.Sprintf("  (%s %d)", f.Month, f.Year)
		}
		fmt.Printf("  %-40s %6d records%s\n", f.Filename, f.Records, period)
	}
	fmt.Println(ui.Styles.Dim.Render(fmt.Sprintf("%d file(s)", len(files))))
	return nil
}

// newAPIClient builds an API client from the flag override or the
// stored CLI config
func newAPIClient(serverFlag string) (*client.APIClient, error) {
	server := serverFlag
	if server == "" {
		cfg, err := config.Load()
		if err != nil {
			ui.PrintError("failed to load config: %v", err)
			return nil, fmt.Errorf("config load failed")
		}
		server = cfg.Server
	}

	apiClient, err := client.NewAPIClient(server)
	if err != nil {
		ui.PrintError("failed to create client: %v", err)
		return nil, fmt.Errorf("client creation failed")
	}
	return apiClient, nil
}
