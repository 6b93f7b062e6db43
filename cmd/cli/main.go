package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/yurifrl/extratos/pkg/config"
	"github.com/yurifrl/extratos/pkg/models"
	"github.com/yurifrl/extratos/pkg/plan"
	"github.com/yurifrl/extratos/pkg/report"
	"github.com/yurifrl/extratos/pkg/service"
)

var (
	cliFilters filters
	cfgFile    string
)

var rootCmd = &cobra.Command{
	Use:          "extratos",
	Short:        "Extract transactions from bank statement PDFs",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Show help when no subcommand is provided
		return cmd.Help()
	},
}

var processCmd = &cobra.Command{
	Use:   "process <bank>",
	Short: "Process every PDF statement of a bank and print a summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		bank, err := models.ParseBank(args[0])
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		processor := service.NewProcessor(cfg, logger)
		raw, _ := cmd.Flags().GetBool("raw")
		if raw {
			results, err := processor.ProcessExtracts(ctx, string(bank))
			if err != nil {
				return err
			}
			pp.Println(results)
			return nil
		}

		rep, err := processor.BuildReport(ctx, string(bank), report.WithFilter(cliFilters.toFilterFunc()))
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		}
		return report.Render(os.Stdout, rep)
	},
}

var planCmd = &cobra.Command{
	Use:   "plan <plan_file>",
	Short: "Process a YAML batch of banks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		base, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		planPath := args[0]
		p, err := plan.Load(planPath)
		if err != nil {
			return err
		}
		cfg := p.Config(base)

		fmt.Printf("Plan for %s\n", planPath)
		p.Print(os.Stdout, cfg)
		fmt.Println()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		processor := service.NewProcessor(cfg, logger)
		for _, bank := range p.BankList() {
			rep, err := processor.BuildReport(ctx, string(bank), report.WithFilter(cliFilters.toFilterFunc()))
			if err != nil {
				// A missing directory only skips that bank.
				logger.Warn("failed to process bank", "bank", bank, "err", err)
				continue
			}
			if err := report.Render(os.Stdout, rep); err != nil {
				return err
			}
			fmt.Println()
		}
		return nil
	},
}

var banksCmd = &cobra.Command{
	Use:   "banks",
	Short: "List supported banks and their statement directories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, _, err := setup(cmd)
		if err != nil {
			return err
		}
		for _, b := range models.SupportedBanks {
			fmt.Printf("%-10s %s\n", b, cfg.BankDir(b))
		}
		return nil
	},
}

// setup loads configuration (config file + env + flag overrides) and builds
// the logger.
func setup(cmd *cobra.Command) (*config.Config, *log.Logger, error) {
	cfg, err := config.Build(cfgFile, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "extratos",
		Level:           cfg.Level(),
	})
	return cfg, logger, nil
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is config.yaml)")
	config.RegisterFlags(rootCmd.PersistentFlags())

	// Filter flags (global)
	rootCmd.PersistentFlags().StringVar(&cliFilters.startDate, "start", "", "Start date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&cliFilters.endDate, "end", "", "End date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().Float64Var(&cliFilters.minAmount, "min", 0, "Minimum absolute amount")
	rootCmd.PersistentFlags().Float64Var(&cliFilters.maxAmount, "max", 0, "Maximum absolute amount")
	rootCmd.PersistentFlags().StringVar(&cliFilters.history, "history", "", "Filter by history (case insensitive)")

	// Flags specific to the process subcommand
	processCmd.Flags().Bool("json", false, "Print the report as JSON")
	processCmd.Flags().Bool("raw", false, "Dump raw per-file results")

	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(banksCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
