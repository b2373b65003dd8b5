package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"procure-service/internal/procure/model"
)

// Request: всё, что нужно для одного прогона сравнения.
type Request struct {
	Suppliers  []model.SupplierSource
	Columns    model.Columns
	DemandText string
	Options    model.Options
}

// Analysis: результат прогона: план + то, что показываем покупателю рядом с ним.
type Analysis struct {
	Plan              model.PurchasePlan  `json:"plan"`
	DisplayQuantities map[string]int      `json:"displayQuantities"`
	Warnings          []string            `json:"warnings"`
	Suggestions       map[string][]string `json:"suggestions"`
}

// ValidateSuppliers checks the supplier count, fills blank names with
// "Supplier A", "Supplier B", ... and rejects duplicate names.
func ValidateSuppliers(srcs []model.SupplierSource) ([]model.SupplierSource, error) {
	if len(srcs) < model.MinSuppliers || len(srcs) > model.MaxSuppliers {
		return nil, fmt.Errorf("%w: got %d, need %d to %d",
			ErrSupplierCount, len(srcs), model.MinSuppliers, model.MaxSuppliers)
	}
	out := make([]model.SupplierSource, len(srcs))
	seen := make(map[string]bool, len(srcs))
	for i, s := range srcs {
		s.Name = strings.TrimSpace(s.Name)
		if s.Name == "" {
			s.Name = DefaultSupplierName(i)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSupplier, s.Name)
		}
		seen[s.Name] = true
		out[i] = s
	}
	return out, nil
}

// SupplierNameFromFile derives a supplier label from a price list file name:
// the stem without "报价单" / "报价" / "价格表". "" when nothing is left.
func SupplierNameFromFile(path string) string {
	base := filepath.Base(strings.ReplaceAll(path, "\\", "/"))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = strings.NewReplacer("报价单", "", "报价", "", "价格表", "").Replace(stem)
	return strings.TrimSpace(stem)
}

// DefaultSupplierName: 0 → "Supplier A", 1 → "Supplier B", ...
func DefaultSupplierName(i int) string {
	return fmt.Sprintf("Supplier %c", rune('A'+i))
}

// Analyze runs one full comparison: normalize every supplier table, parse
// the procurement list, allocate and attach suggestions for unmatched lines.
// Any normalization or parsing error aborts the run without a partial plan.
func Analyze(ctx context.Context, req Request, logger zerolog.Logger) (Analysis, error) {
	srcs, err := ValidateSuppliers(req.Suppliers)
	if err != nil {
		return Analysis{}, err
	}

	// 1) Нормализация прайсов: независимо по поставщикам
	sets := make([]OfferSet, len(srcs))
	g, gctx := errgroup.WithContext(ctx)
	for i := range srcs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			set, err := Normalize(srcs[i], req.Columns)
			if err != nil {
				return err
			}
			sets[i] = set
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Analysis{}, err
	}

	// 2) Объединение в порядке поставщиков (важно для выбора при равных ценах)
	var (
		offers   []model.Offer
		names    = make([]string, len(srcs))
		warnings = []string{}
	)
	for i, set := range sets {
		names[i] = srcs[i].Name
		offers = append(offers, set.Offers...)
		ev := logger.Info()
		if set.Warning != nil {
			ev = logger.Warn()
			warnings = append(warnings, set.Warning.Error())
		}
		ev.Str("supplier", set.Supplier).
			Str("file", srcs[i].File).
			Int("rows", set.RowsRead).
			Int("offers", len(set.Offers)).
			Int("dropped", set.RowsDropped).
			Msg("supplier normalized")
	}

	// 3) Список закупки
	demand, display, err := ParseDemand(req.DemandText)
	if err != nil {
		return Analysis{}, err
	}

	// 4) Выбор поставщиков
	plan := Allocate(offers, demand, names)
	sugg := Suggest(offers, unmatchedLines(demand, plan), req.Options)

	logger.Info().
		Int("demand", demand.Len()).
		Int("offers", len(offers)).
		Int("lines", len(plan.Lines)).
		Int("unmatched", len(plan.Unmatched)).
		Float64("grand_total", plan.GrandTotal).
		Msg("allocation done")

	return Analysis{
		Plan:              plan,
		DisplayQuantities: display,
		Warnings:          warnings,
		Suggestions:       sugg,
	}, nil
}
