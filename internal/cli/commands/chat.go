package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/oeelens/oee-apiserver/internal/cli/client"
	"github.com/oeelens/oee-apiserver/internal/cli/config"
	"github.com/oeelens/oee-apiserver/internal/cli/session"
	"github.com/oeelens/oee-apiserver/internal/cli/tui"
	"github.com/oeelens/oee-apiserver/internal/cli/ui"
)

var (
	chatServer  string
	chatMachine string
)

// chatCmd starts the interactive analysis chat
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "start an interactive analysis chat",
	Long: `Start an interactive chat for analyzing manufacturing telemetry.

Questions are answered by the OEE API server using the imported shift
data of the selected machine. Inside the chat, /help lists the session
commands (switching machines, exporting the transcript as PDF, and so
on).`,
	Example: `  # Pick a machine interactively and chat
  $ oeectl chat

  # Chat about a specific machine
  $ oeectl chat -m MC_PRESS_9

  # Talk to a non-default server
  $ oeectl chat -s http://oee.factory.local:8080`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatServer, "server", "s", "", "API server address (defaults to the configured server)")
	chatCmd.Flags().StringVarP(&chatMachine, "machine", "m", "", "machine to analyze (prompts when omitted)")
	chatCmd.SilenceUsage = true
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		ui.PrintError("failed to load config: %v", err)
		return fmt.Errorf("config load failed")
	}

	server := chatServer
	if server == "" {
		server = cfg.Server
	}

	apiClient, err := client.NewAPIClient(server)
	if err != nil {
		ui.PrintError("failed to create client: %v", err)
		return fmt.Errorf("client creation failed")
	}

	machine := chatMachine
	if machine == "" {
		machine = cfg.Machine
	}
	if machine == "" {
		machine, err = pickMachine(apiClient)
		if err != nil {
			return err
		}

		// Remember the choice for the next run
		cfg.Machine = machine
		if err := cfg.Save(); err != nil {
			ui.PrintWarning("could not save config: %v", err)
		}
	}

	ui.PrintChatWelcomeBanner()
	ui.PrintInfo("Chatting about %s, press Esc to leave", machine)

	sess := session.New(machine)
	if err := tui.NewChatProgram(apiClient, sess).Run(); err != nil {
		ui.PrintError("chat session failed: %v", err)
		return fmt.Errorf("chat failed")
	}

	return nil
}

// pickMachine prompts for a machine from the server's list
func pickMachine(apiClient *client.APIClient) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	machines, err := apiClient.ListMachines(ctx)
	if err != nil {
		ui.PrintError("failed to list machines: %v", err)
		return "", fmt.Errorf("list operation failed")
	}
	if len(machines) == 0 {
		ui.PrintError("no machines with imported data, import CSV files first")
		return "", fmt.Errorf("no machines available")
	}

	var machine string
	prompt := &survey.Select{
		Message: "Select a machine:",
		Options: machines,
	}
	if err := survey.AskOne(prompt, &machine, survey.WithValidator(survey.Required)); err != nil {
		return "", fmt.Errorf("selection cancelled")
	}

	return machine, nil
}
