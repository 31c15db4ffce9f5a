package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ghostbridge/config"
	"ghostbridge/pkg/engine"
)

var rootCmd = &cobra.Command{
	Use:   "ghostbridge",
	Short: "A CLI for bridging shielded ZEC across chains",
	Long: `ghostbridge is a command-line tool that quotes and coordinates
cross-chain ZEC bridges. It selects the best bridging protocol for a
chain pair, prices the transfer, and tracks the execution step by step.

Examples:
  ghostbridge quote 1 from zcash to near
  ghostbridge quote 1 from zcash to ethereum --compare
  ghostbridge bridge 0.5 from zcash to near --signer alice.near
  ghostbridge status <execution-id>
  ghostbridge history <wallet-address>`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}

func printSuccess(message string) {
	fmt.Printf("\n%s\n\n", message)
}

// openStore opens the execution store configured for this installation
func openStore(cfg *config.Config) (engine.Store, error) {
	return engine.NewFileStore(cfg.StorePath)
}
