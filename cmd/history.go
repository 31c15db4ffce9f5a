package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ghostbridge/config"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history <wallet-address>",
	Short: "List past bridge executions for a wallet",
	Long: `List bridge executions recorded for a wallet address, newest first.

Examples:
  ghostbridge history alice.near
  ghostbridge history 0x1234...abcd --limit 25`,
	Args: cobra.ExactArgs(1),
	Run:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Maximum number of executions to show")
}

func runHistory(cmd *cobra.Command, args []string) {
	wallet := args[0]
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

	executions, err := store.ListByWallet(wallet, historyLimit)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(executions, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	if len(executions) == 0 {
		fmt.Printf("\nNo bridge executions found for %s.\n\n", wallet)
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	color.Green("                              BRIDGE HISTORY")
	fmt.Println(strings.Repeat("=", 90))
	fmt.Printf("\nWallet: %s\n\n", color.CyanString(wallet))

	for _, ex := range executions {
		fmt.Printf("  %s  %s\n",
			ex.CreatedAt.Format("2006-01-02 15:04:05"),
			coloredExecutionStatus(ex.Status))
		fmt.Printf("    %s %s -> %s via %s  (id %s)\n",
			ex.InputAmount,
			ex.SourceChain, ex.TargetChain, ex.Protocol,
			color.HiBlackString(ex.ID))
		if ex.Error != "" {
			fmt.Printf("    %s\n", color.RedString(ex.Error))
		}
		fmt.Println()
	}

	fmt.Println(strings.Repeat("=", 90))
	fmt.Printf("\nTotal: %d execution(s)\n\n", len(executions))
}
