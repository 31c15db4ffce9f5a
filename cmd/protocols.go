package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ghostbridge/pkg/parser"
	"ghostbridge/pkg/registry"
	"ghostbridge/pkg/types"
)

var protocolFilterChain string

var protocolsCmd = &cobra.Command{
	Use:     "protocols",
	Aliases: []string{"list-protocols", "ls"},
	Short:   "List all supported bridge protocols",
	Long: `List the bridging protocols this tool can route through, with their
supported chains, fees, and security levels.

Examples:
  ghostbridge protocols
  ghostbridge protocols --chain near`,
	Run: runListProtocols,
}

var chainsCmd = &cobra.Command{
	Use:     "chains",
	Aliases: []string{"list-chains"},
	Short:   "List all supported chains and their reachable targets",
	Run:     runListChains,
}

func init() {
	rootCmd.AddCommand(protocolsCmd)
	rootCmd.AddCommand(chainsCmd)

	protocolsCmd.Flags().StringVar(&protocolFilterChain, "chain", "", "Only show protocols touching this chain")
}

func runListProtocols(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	reg := registry.New()

	var filter types.Chain
	if protocolFilterChain != "" {
		chain, err := parser.NormalizeChain(protocolFilterChain)
		if err != nil {
			printError(err)
			os.Exit(1)
		}
		filter = chain
	}

	var configs []*registry.ProtocolConfig
	for _, name := range reg.Protocols() {
		cfg, err := reg.Get(name)
		if err != nil {
			continue
		}
		if filter != "" && !cfg.SupportsSource(filter) && !cfg.SupportsTarget(filter) {
			continue
		}
		configs = append(configs, cfg)
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(configs, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	if len(configs) == 0 {
		fmt.Println("\nNo protocols found matching the criteria.")
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	color.Green("                            SUPPORTED PROTOCOLS")
	fmt.Println(strings.Repeat("=", 90))

	for _, cfg := range configs {
		shielded := ""
		if cfg.SupportsShielded {
			shielded = color.MagentaString("  shielded")
		}
		fmt.Printf("\n%s  (%s)%s\n", color.YellowString(cfg.DisplayName), cfg.Name, shielded)
		fmt.Println(strings.Repeat("-", 90))
		fmt.Printf("  Fee:      %.2f%%  +  avg time %s  +  %s security\n",
			cfg.BaseFeePercent, formatDuration(cfg.AvgBridgeTime), cfg.SecurityLevel)
		fmt.Printf("  Sources:  %s\n", joinChainList(cfg.SupportedSourceChains))
		fmt.Printf("  Targets:  %s\n", joinChainList(cfg.SupportedTargetChains))
	}

	fmt.Println("\n" + strings.Repeat("=", 90))
	fmt.Printf("\nTotal: %d protocols\n\n", len(configs))
}

func runListChains(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	reg := registry.New()

	if jsonOutput {
		out := make(map[string][]types.Chain)
		for _, chain := range types.AllChains() {
			out[string(chain)] = reg.TargetsFrom(chain)
		}
		jsonData, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                        SUPPORTED CHAINS")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println()

	for _, chain := range types.AllChains() {
		targets := reg.TargetsFrom(chain)
		reachable := "no outbound routes"
		if len(targets) > 0 {
			reachable = "-> " + joinChainList(targets)
		}
		fmt.Printf("  %-12s %s %s\n",
			color.YellowString(string(chain)),
			color.HiBlackString(fmt.Sprintf("(%s)", chain.DisplayName())),
			reachable)
	}

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}

func joinChainList(chains []types.Chain) string {
	parts := make([]string, len(chains))
	for i, c := range chains {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}
