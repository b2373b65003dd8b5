package service

import (
	"regexp"
	"strings"

	"procure-service/internal/procure/model"
	"procure-service/internal/utils"
)

// OfferSet: результат нормализации прайса одного поставщика.
type OfferSet struct {
	Supplier    string
	Offers      []model.Offer
	RowsRead    int
	RowsDropped int
	// Warning != nil, если не осталось ни одной строки с ценой; это не ошибка.
	Warning *EmptyResultWarning
}

// Normalize turns one supplier's table into canonical offers.
//
// Column presence is checked first (product, price, then spec if one is
// named). Product and spec cells are forward-filled to undo merged cells,
// prices are coerced once, and rows without a product or with a price that
// is missing or not strictly positive are dropped.
func Normalize(src model.SupplierSource, cols model.Columns) (OfferSet, error) {
	set := OfferSet{Supplier: src.Name, RowsRead: len(src.Table.Rows)}

	productKey, err := resolveColumn(src, cols.Product, "product")
	if err != nil {
		return set, err
	}
	priceKey, err := resolveColumn(src, cols.Price, "price")
	if err != nil {
		return set, err
	}
	specKey := ""
	if cols.HasSpec() {
		if specKey, err = resolveColumn(src, cols.Spec, "spec"); err != nil {
			return set, err
		}
	}

	products := forwardFill(src.Table.Rows, productKey)
	var specs []string
	if specKey != "" {
		specs = forwardFill(src.Table.Rows, specKey)
	}

	offers := make([]model.Offer, 0, len(src.Table.Rows))
	for i, rec := range src.Table.Rows {
		product := products[i]
		if product == "" {
			continue
		}
		price, ok := utils.ParseNumber(rec[priceKey])
		if !ok || price <= 0 {
			continue
		}
		spec := ""
		if specs != nil {
			spec = specs[i]
		}
		offers = append(offers, model.Offer{
			Supplier: src.Name,
			Product:  product,
			Spec:     spec,
			Price:    price,
			Key:      model.ProductKey(product, spec),
			Row:      i + 1,
		})
	}

	set.Offers = offers
	set.RowsDropped = set.RowsRead - len(offers)
	if len(offers) == 0 {
		set.Warning = &EmptyResultWarning{Supplier: src.Name, File: src.File}
	}
	return set, nil
}

// forwardFill: пустая ячейка берёт последнее непустое значение выше
// (объединённые ячейки в прайсе). Значения обрезаются.
func forwardFill(rows []map[string]string, key string) []string {
	out := make([]string, len(rows))
	last := ""
	for i, rec := range rows {
		v := strings.TrimSpace(rec[key])
		if v == "" {
			v = last
		}
		out[i] = v
		last = v
	}
	return out
}

var rxHeaderJunk = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// нормализуем имя колонки: нижний регистр, NBSP, ё→е, служебные символы → пробел
func normHeaderKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("\u00A0", " ", "\u202F", " ", "ё", "е").Replace(s)
	s = rxHeaderJunk.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// resolveColumn ищет колонку сначала точно, затем по нормализованному имени
// ("Цена, руб." == "цена руб"). Частичные совпадения не принимаются.
func resolveColumn(src model.SupplierSource, want, role string) (string, error) {
	notFound := &ColumnNotFoundError{Supplier: src.Name, File: src.File, Column: want, Role: role}
	want = strings.TrimSpace(want)
	if want == "" {
		return "", notFound
	}
	if src.Table.HasColumn(want) {
		return want, nil
	}
	nWant := normHeaderKey(want)
	if nWant == "" {
		return "", notFound
	}
	for _, c := range src.Table.Columns {
		if normHeaderKey(c) == nWant {
			return c, nil
		}
	}
	return "", notFound
}
