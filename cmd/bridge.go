package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ghostbridge/config"
	"ghostbridge/pkg/engine"
	"ghostbridge/pkg/parser"
	"ghostbridge/pkg/quote"
	"ghostbridge/pkg/registry"
	"ghostbridge/pkg/types"
)

var (
	bridgeProtocol string
	bridgeShielded bool
	bridgeSlippage float64
	bridgeSigner   string
	bridgeYes      bool
	bridgeNoWatch  bool
)

var bridgeCmd = &cobra.Command{
	Use:   "bridge <amount> from <source-chain> to <target-chain>",
	Short: "Quote and execute a cross-chain bridge",
	Long: `Bridge ZEC from one chain to another: fetch a quote, confirm it, and
drive the bridge through its route while reporting each step.

IMPORTANT:
  - You MUST specify --signer (the wallet address executions are recorded under)
  - The quote expires 5 minutes after it is issued

Examples:
  # Shielded bridge with automatic protocol selection
  ghostbridge bridge 1 from zcash to near --signer alice.near

  # Pin a protocol and skip confirmation
  ghostbridge bridge 0.5 from zcash to ethereum --protocol wormhole --signer 0xabc... --yes

  # Wait quietly and print only the final result
  ghostbridge bridge 1 from zcash to near --signer alice.near --no-watch`,
	Args: cobra.MinimumNArgs(1),
	Run:  runBridge,
}

func init() {
	rootCmd.AddCommand(bridgeCmd)

	bridgeCmd.Flags().StringVar(&bridgeProtocol, "protocol", "", "Pin a specific bridge protocol (optional)")
	bridgeCmd.Flags().BoolVar(&bridgeShielded, "shielded", true, "Require shielded transfer support")
	bridgeCmd.Flags().Float64Var(&bridgeSlippage, "slippage", 0, "Slippage tolerance in percent (optional)")
	bridgeCmd.Flags().StringVar(&bridgeSigner, "signer", "", "Signer wallet address (REQUIRED)")
	bridgeCmd.Flags().BoolVarP(&bridgeYes, "yes", "y", false, "Skip confirmation prompt")
	bridgeCmd.Flags().BoolVar(&bridgeNoWatch, "no-watch", false, "Wait quietly instead of printing step-by-step progress")
}

func runBridge(cmd *cobra.Command, args []string) {
	req, err := parser.ParseBridgeCommand(strings.Join(args, " "))
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if bridgeSigner == "" {
		printError(fmt.Errorf("--signer is required"))
		os.Exit(1)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	builder := quote.NewBuilder(registry.New(), cfg)

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Fetching quote..."
		s.Start()
	}

	q, err := builder.GetQuote(&quote.Request{
		SourceChain:       req.SourceChain,
		TargetChain:       req.TargetChain,
		Amount:            req.Amount,
		Shielded:          bridgeShielded,
		PreferredProtocol: types.Protocol(bridgeProtocol),
		SlippageTolerance: bridgeSlippage,
	})
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if !jsonOutput {
		displayQuote(q)
	}

	// Ask for confirmation
	if !bridgeYes && !jsonOutput {
		if !confirmBridge() {
			fmt.Println("\nBridge cancelled.")
			os.Exit(0)
		}
	}

	store, err := openStore(cfg)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	eng := engine.New(store, cfg)

	execution, err := eng.ExecuteQuote(q, bridgeSigner)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		if final, err := completeExecution(eng, store, execution.ID, false); err == nil {
			execution = final
		}
		jsonData, _ := json.MarshalIndent(execution, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	printSuccess(fmt.Sprintf("Bridge submitted. Execution ID: %s", color.CyanString(execution.ID)))

	final, err := completeExecution(eng, store, execution.ID, !bridgeNoWatch)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	displayExecution(final)
}

// completeExecution blocks until the execution settles and returns the
// final record. The progression goroutine dies with the process, so the
// command must not return before a terminal state is persisted, even
// when progress is not being displayed.
func completeExecution(eng *engine.Engine, store engine.Store, executionID string, watch bool) (*types.Execution, error) {
	if watch {
		watchExecutionProgress(store, executionID)
	}
	eng.Wait()
	return store.Get(executionID)
}

// watchExecutionProgress polls the store and prints each step
// transition until the execution reaches a terminal state
func watchExecutionProgress(store engine.Store, executionID string) {
	reported := make(map[int]types.StepStatus)

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		ex, err := store.Get(executionID)
		if err != nil {
			color.Red("Error: %v", err)
			return
		}

		for _, step := range ex.Steps {
			if reported[step.Step] == step.Status {
				continue
			}
			reported[step.Step] = step.Status

			switch step.Status {
			case types.StepInProgress:
				fmt.Printf("  %s Step %d/%d: %s...\n",
					color.YellowString("->"), step.Step, len(ex.Steps), step.Message)
			case types.StepCompleted:
				fmt.Printf("  %s Step %d/%d confirmed (tx %s)\n",
					color.GreenString("ok"), step.Step, len(ex.Steps), shortHash(step.TransactionHash))
			case types.StepFailed:
				fmt.Printf("  %s Step %d/%d failed\n",
					color.RedString("!!"), step.Step, len(ex.Steps))
			}
		}

		if ex.Terminal() {
			return
		}
	}
}

func confirmBridge() bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("\nProceed with bridge? (y/N): ")

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

func shortHash(hash string) string {
	if len(hash) <= 14 {
		return hash
	}
	return hash[:10] + "..." + hash[len(hash)-4:]
}
