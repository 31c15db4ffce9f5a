package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ghostbridge/config"
	"ghostbridge/pkg/parser"
	"ghostbridge/pkg/quote"
	"ghostbridge/pkg/registry"
	"ghostbridge/pkg/types"
)

var (
	quoteProtocol string
	quoteShielded bool
	quoteSlippage float64
	quoteCompare  bool
)

var quoteCmd = &cobra.Command{
	Use:   "quote <amount> from <source-chain> to <target-chain>",
	Short: "Get a priced quote for a cross-chain bridge",
	Long: `Get a quote for bridging ZEC from one chain to another. The best
protocol for the pair is selected automatically unless --protocol pins one.

Examples:
  ghostbridge quote 1 from zcash to near
  ghostbridge quote 1 from zcash to ethereum --protocol wormhole
  ghostbridge quote 0.5 from zcash to near --shielded=false
  ghostbridge quote 1 from zcash to ethereum --compare`,
	Args: cobra.MinimumNArgs(1),
	Run:  runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().StringVar(&quoteProtocol, "protocol", "", "Pin a specific bridge protocol (optional)")
	quoteCmd.Flags().BoolVar(&quoteShielded, "shielded", true, "Require shielded transfer support")
	quoteCmd.Flags().Float64Var(&quoteSlippage, "slippage", 0, "Slippage tolerance in percent (optional)")
	quoteCmd.Flags().BoolVar(&quoteCompare, "compare", false, "Show one quote per compatible protocol, cheapest first")
}

func runQuote(cmd *cobra.Command, args []string) {
	req, err := parser.ParseBridgeCommand(strings.Join(args, " "))
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	builder := quote.NewBuilder(registry.New(), cfg)
	quoteReq := &quote.Request{
		SourceChain:       req.SourceChain,
		TargetChain:       req.TargetChain,
		Amount:            req.Amount,
		Shielded:          quoteShielded,
		PreferredProtocol: types.Protocol(quoteProtocol),
		SlippageTolerance: quoteSlippage,
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Fetching quote..."
		s.Start()
	}

	if quoteCompare {
		quotes, err := builder.GetQuotes(quoteReq)
		if !jsonOutput {
			s.Stop()
		}
		if err != nil {
			printError(err)
			os.Exit(1)
		}
		if jsonOutput {
			jsonData, _ := json.MarshalIndent(quotes, "", "  ")
			fmt.Println(string(jsonData))
			return
		}
		displayQuoteComparison(quotes)
		return
	}

	q, err := builder.GetQuote(quoteReq)
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(q, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	displayQuote(q)
	fmt.Println("To execute this bridge, run:")
	color.Cyan("  ghostbridge bridge %s from %s to %s --signer <your-address>\n",
		q.InputAmount, q.SourceChain, q.TargetChain)
}

func displayQuote(q *types.Quote) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                        BRIDGE QUOTE")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  Quote ID:       %s\n", color.HiBlackString(q.ID))
	fmt.Printf("  Protocol:       %s", color.YellowString(string(q.Protocol)))
	fmt.Printf("  (%s security)\n", q.SecurityLevel)
	fmt.Printf("  Route:          %s -> %s\n", q.SourceChain.DisplayName(), q.TargetChain.DisplayName())
	fmt.Printf("  You send:       %s %s\n", q.InputAmount, q.SourceToken)
	fmt.Printf("  You receive:    ~%s %s\n", q.OutputAmount, q.TargetToken)
	fmt.Printf("  Shielded:       %v\n", q.Shielded)
	fmt.Printf("  Estimated time: %s\n", formatDuration(q.EstimatedTime))
	fmt.Printf("  Expires:        %s\n", q.ExpiresAt.Format("15:04:05"))

	fmt.Printf("\n  Fees:\n")
	fmt.Printf("    Bridge fee:   %s\n", q.Fees.BridgeFee)
	fmt.Printf("    Gas fee:      %s\n", q.Fees.GasFee)
	fmt.Printf("    Protocol fee: %s\n", q.Fees.ProtocolFee)
	fmt.Printf("    Total:        %s (%s)\n", color.YellowString(q.Fees.TotalFee), q.Fees.TotalFeeUSD)

	fmt.Printf("\n  Route steps:\n")
	for _, step := range q.Route {
		fmt.Printf("    %d. [%s] %s (%s, ~%s)\n",
			step.Step,
			color.CyanString(string(step.Action)),
			step.Description,
			step.Chain,
			formatDuration(step.EstimatedDuration))
	}

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}

func displayQuoteComparison(quotes []*types.Quote) {
	if len(quotes) == 0 {
		fmt.Println("\nNo compatible protocols for this route.")
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                  AVAILABLE QUOTES (cheapest first)")
	fmt.Println(strings.Repeat("=", 70))

	for i, q := range quotes {
		marker := "  "
		if i == 0 {
			marker = color.GreenString("* ")
		}
		fmt.Printf("\n%s%-18s  fee %s  time %s  security %s\n",
			marker,
			color.YellowString(string(q.Protocol)),
			q.Fees.TotalFee,
			formatDuration(q.EstimatedTime),
			q.SecurityLevel)
		fmt.Printf("    receive ~%s %s, %d route steps\n", q.OutputAmount, q.TargetToken, len(q.Route))
	}

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}

func formatDuration(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	if seconds%60 == 0 {
		return fmt.Sprintf("%dm", seconds/60)
	}
	return fmt.Sprintf("%dm%ds", seconds/60, seconds%60)
}
