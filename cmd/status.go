package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ghostbridge/config"
	"ghostbridge/pkg/engine"
	"ghostbridge/pkg/types"
)

var (
	watchStatus   bool
	watchInterval int
)

var statusCmd = &cobra.Command{
	Use:   "status <execution-id>",
	Short: "Check the status of a bridge execution",
	Long: `Check the progress of a bridge execution by its id.

Examples:
  ghostbridge status 4f2c9a6e-...
  ghostbridge status 4f2c9a6e-... --watch
  ghostbridge status 4f2c9a6e-... --watch --interval 10`,
	Args: cobra.ExactArgs(1),
	Run:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVarP(&watchStatus, "watch", "w", false, "Watch status updates continuously")
	statusCmd.Flags().IntVar(&watchInterval, "interval", 5, "Polling interval in seconds (when watching)")
}

func runStatus(cmd *cobra.Command, args []string) {
	executionID := args[0]
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	store, err := openStore(cfg)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if watchStatus {
		watchExecutionStatus(store, executionID, jsonOutput)
	} else {
		checkExecutionStatus(store, executionID, jsonOutput)
	}
}

func checkExecutionStatus(store engine.Store, executionID string, jsonOutput bool) {
	ex, err := store.Get(executionID)
	if err != nil {
		if errors.Is(err, engine.ErrNotFound) {
			printError(fmt.Errorf("no execution with id '%s'", executionID))
		} else {
			printError(err)
		}
		os.Exit(1)
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(ex, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		displayExecution(ex)
	}
}

func watchExecutionStatus(store engine.Store, executionID string, jsonOutput bool) {
	if jsonOutput {
		fmt.Println(`{"error": "watch mode not supported with JSON output"}`)
		os.Exit(1)
	}

	fmt.Printf("\nWatching execution %s\n", color.CyanString(executionID))
	fmt.Printf("Checking every %d seconds. Press Ctrl+C to stop.\n", watchInterval)

	ticker := time.NewTicker(time.Duration(watchInterval) * time.Second)
	defer ticker.Stop()

	// Check immediately first
	checkExecutionStatus(store, executionID, false)

	// Then check periodically until the execution settles
	for range ticker.C {
		ex, err := store.Get(executionID)
		if err != nil {
			color.Red("Error: %v", err)
			return
		}
		displayExecution(ex)
		if ex.Terminal() {
			return
		}
	}
}

func displayExecution(ex *types.Execution) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                       BRIDGE EXECUTION")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  Execution ID:  %s\n", color.CyanString(ex.ID))
	fmt.Printf("  Quote ID:      %s\n", color.HiBlackString(ex.QuoteID))
	fmt.Printf("  Wallet:        %s\n", ex.WalletAddress)
	fmt.Printf("  Route:         %s -> %s via %s\n",
		ex.SourceChain.DisplayName(), ex.TargetChain.DisplayName(), ex.Protocol)
	fmt.Printf("  Amount:        %s in, ~%s out\n", ex.InputAmount, ex.OutputAmount)
	fmt.Printf("  Status:        %s\n", coloredExecutionStatus(ex.Status))
	fmt.Printf("  Last updated:  %s\n", ex.UpdatedAt.Format("2006-01-02 15:04:05"))

	if ex.Error != "" {
		fmt.Printf("  Error:         %s\n", color.RedString(ex.Error))
	}

	fmt.Printf("\n  Steps:\n")
	for _, step := range ex.Steps {
		line := fmt.Sprintf("    %d. %s  %s", step.Step, coloredStepStatus(step.Status), step.Message)
		if step.TransactionHash != "" {
			line += fmt.Sprintf("  %s", color.HiBlackString(shortHash(step.TransactionHash)))
		}
		fmt.Println(line)
	}

	if ex.SourceTransaction != nil {
		fmt.Printf("\n  Source tx:     %s\n", color.HiBlackString(ex.SourceTransaction.Hash))
		fmt.Printf("                 %s\n", ex.SourceTransaction.ExplorerURL)
	}
	if ex.TargetTransaction != nil {
		fmt.Printf("  Target tx:     %s\n", color.HiBlackString(ex.TargetTransaction.Hash))
		fmt.Printf("                 %s\n", ex.TargetTransaction.ExplorerURL)
	}

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}

func coloredExecutionStatus(status types.ExecutionStatus) string {
	s := strings.ToUpper(string(status))
	switch status {
	case types.ExecutionCompleted:
		return color.GreenString(s)
	case types.ExecutionFailed:
		return color.RedString(s)
	case types.ExecutionPending:
		return color.YellowString(s)
	default:
		return color.CyanString(s)
	}
}

func coloredStepStatus(status types.StepStatus) string {
	switch status {
	case types.StepCompleted:
		return color.GreenString("[done]")
	case types.StepFailed:
		return color.RedString("[fail]")
	case types.StepInProgress:
		return color.YellowString("[....]")
	default:
		return color.HiBlackString("[wait]")
	}
}
