package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"procure-service/internal/config"
	"procure-service/internal/draft"
	"procure-service/internal/fileio"
	"procure-service/internal/procure/model"
	procSvc "procure-service/internal/procure/service"
)

type compareOptions struct {
	suppliers  []string // "Name=path" или просто path
	productCol string
	specCol    string
	priceCol   string
	headerRow  int
	demand     string // файл со списком закупки, "-" = stdin
	out        string // xlsx
	cache      string // черновик списка закупки
}

var compareOpts compareOptions

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run one comparison and print the purchase plan",
	Long: `Runs one comparison over the given supplier files.

Examples:
  procure compare --supplier "Green Farm=green.xlsx" --supplier "Metro=metro.csv" --demand list.txt

  # no spec column, plan exported to Excel
  procure compare --supplier a.xlsx --supplier b.xlsx --spec-col "" --demand list.txt --out plan.xlsx

Without --demand the last procurement list saved in --cache is used.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		opts := compareOpts
		// флаги, которые не задавали явно, берутся из окружения
		if !cmd.Flags().Changed("product-col") {
			opts.productCol = cfg.ProductCol
		}
		if !cmd.Flags().Changed("spec-col") {
			opts.specCol = cfg.SpecCol
		}
		if !cmd.Flags().Changed("price-col") {
			opts.priceCol = cfg.PriceCol
		}
		if !cmd.Flags().Changed("header-row") {
			opts.headerRow = cfg.HeaderRow
		}
		if !cmd.Flags().Changed("cache") {
			opts.cache = cfg.DraftFile
		}
		return runCompare(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), opts, cfg, logger)
	},
}

func init() {
	f := compareCmd.Flags()
	f.StringArrayVar(&compareOpts.suppliers, "supplier", nil, `supplier price list as "Name=path" (repeat 2..5 times)`)
	f.StringVar(&compareOpts.productCol, "product-col", "Product", "product name column")
	f.StringVar(&compareOpts.specCol, "spec-col", "Spec", `spec column ("" = none)`)
	f.StringVar(&compareOpts.priceCol, "price-col", "Price", "price column")
	f.IntVar(&compareOpts.headerRow, "header-row", 1, "header row number (1-based)")
	f.StringVar(&compareOpts.demand, "demand", "", `procurement list file ("-" = stdin)`)
	f.StringVar(&compareOpts.out, "out", "", "write the plan to this xlsx file")
	f.StringVar(&compareOpts.cache, "cache", "procurement_list_cache.json", "procurement list draft file")
	_ = compareCmd.MarkFlagRequired("supplier")

	rootCmd.AddCommand(compareCmd)
}

func runCompare(ctx context.Context, in io.Reader, out io.Writer, opts compareOptions, cfg config.Config, logger zerolog.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	srcs := make([]model.SupplierSource, 0, len(opts.suppliers))
	for _, arg := range opts.suppliers {
		name, path := parseSupplierArg(arg)
		tbl, err := fileio.OpenTable(path, opts.headerRow)
		if err != nil {
			return fmt.Errorf("supplier %q: %w", arg, err)
		}
		srcs = append(srcs, model.SupplierSource{Name: name, File: path, Table: tbl})
	}

	text, err := demandText(in, opts, logger)
	if err != nil {
		return err
	}

	res, err := procSvc.Analyze(ctx, procSvc.Request{
		Suppliers: srcs,
		Columns: model.Columns{
			Product:   opts.productCol,
			Spec:      opts.specCol,
			Price:     opts.priceCol,
			HeaderRow: opts.headerRow,
		},
		DemandText: text,
		Options: model.Options{
			SuggestThreshold: cfg.SuggestThreshold,
			MaxSuggestions:   cfg.MaxSuggestions,
		},
	}, logger)
	if err != nil {
		return err
	}

	if opts.cache != "" {
		if err := draft.Save(opts.cache, text); err != nil {
			logger.Warn().Err(err).Str("path", opts.cache).Msg("draft not saved")
		}
	}

	if err := printPlan(out, res); err != nil {
		return err
	}

	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return err
		}
		if err := fileio.WritePlanXLSX(f, res.Plan); err != nil {
			f.Close()
			return fmt.Errorf("export %s: %w", opts.out, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		logger.Info().Str("path", opts.out).Msg("plan exported")
	}
	return nil
}

// parseSupplierArg: "Name=path" -> (Name, path); без имени оно берётся из
// имени файла, а если и там пусто, то выбирается по умолчанию.
func parseSupplierArg(arg string) (string, string) {
	name, path, ok := strings.Cut(arg, "=")
	if !ok {
		name, path = "", arg
	}
	name, path = strings.TrimSpace(name), strings.TrimSpace(path)
	if name == "" {
		name = procSvc.SupplierNameFromFile(path)
	}
	return name, path
}

func demandText(in io.Reader, opts compareOptions, logger zerolog.Logger) (string, error) {
	switch opts.demand {
	case "":
		if opts.cache == "" {
			return "", nil
		}
		return draft.Load(opts.cache, logger), nil
	case "-":
		b, err := io.ReadAll(in)
		return string(b), err
	default:
		b, err := os.ReadFile(opts.demand)
		if err != nil {
			return "", fmt.Errorf("procurement list: %w", err)
		}
		return string(b), nil
	}
}
