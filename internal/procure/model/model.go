package model

import (
	"encoding/json"
	"strings"
)

// Table: уже прочитанная таблица: заголовки в исходном порядке и строки
// в порядке следования в файле (полностью пустые строки отброшены ридером).
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// HasColumn reports whether the header row contains exactly col.
func (t Table) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Columns: имена колонок прайса, которые задаёт покупатель.
type Columns struct {
	Product   string // наименование
	Spec      string // спецификация/вариант (пусто = колонки нет)
	Price     string // цена
	HeaderRow int    // строка заголовков (1-based)
}

// HasSpec: колонка спецификации задана непустым именем.
func (c Columns) HasSpec() bool { return strings.TrimSpace(c.Spec) != "" }

// SupplierSource: один поставщик в прогоне: имя для покупателя + его таблица.
type SupplierSource struct {
	Name  string
	File  string // только для сообщений об ошибках
	Table Table
}

// Offer is one supplier's quote for one product variant.
type Offer struct {
	Supplier string  `json:"supplier"`
	Product  string  `json:"product"`
	Spec     string  `json:"spec"`
	Price    float64 `json:"price"`
	Key      string  `json:"key"`
	Row      int     `json:"row"` // строка данных в исходной таблице (1-based)
}

// DemandLine: одна позиция закупки с суммарным количеством.
type DemandLine struct {
	Product  string `json:"product"`
	Spec     string `json:"spec"`
	Quantity int    `json:"quantity"`
	Key      string `json:"key"`
}

func (d DemandLine) DisplayName() string { return DisplayName(d.Product, d.Spec) }

// Demand: позиции закупки в порядке первого появления + индекс по ключу.
type Demand struct {
	Lines []DemandLine   `json:"lines"`
	index map[string]int // key -> position in Lines
}

// Get returns the line stored under key.
func (d Demand) Get(key string) (DemandLine, bool) {
	i, ok := d.index[key]
	if !ok {
		return DemandLine{}, false
	}
	return d.Lines[i], true
}

func (d Demand) Len() int { return len(d.Lines) }

// Add appends a new line or sums its quantity into the existing one.
func (d *Demand) Add(line DemandLine) {
	if d.index == nil {
		d.index = make(map[string]int)
	}
	if i, ok := d.index[line.Key]; ok {
		d.Lines[i].Quantity += line.Quantity
		return
	}
	d.index[line.Key] = len(d.Lines)
	d.Lines = append(d.Lines, line)
}

// Quote: цена поставщика по позиции; Quoted=false означает «нет предложения».
type Quote struct {
	Supplier string
	Price    float64
	Quoted   bool
}

func (q Quote) MarshalJSON() ([]byte, error) {
	var price *float64
	if q.Quoted {
		p := q.Price
		price = &p
	}
	return json.Marshal(struct {
		Supplier string   `json:"supplier"`
		Price    *float64 `json:"price"`
	}{q.Supplier, price})
}

func (q *Quote) UnmarshalJSON(b []byte) error {
	var v struct {
		Supplier string   `json:"supplier"`
		Price    *float64 `json:"price"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*q = Quote{Supplier: v.Supplier}
	if v.Price != nil {
		q.Price, q.Quoted = *v.Price, true
	}
	return nil
}

// PurchaseLine: результат выбора по одной позиции закупки.
type PurchaseLine struct {
	Key         string  `json:"key"`
	DisplayName string  `json:"displayName"`
	Product     string  `json:"product"`
	Spec        string  `json:"spec"`
	Quantity    int     `json:"quantity"`
	Supplier    string  `json:"supplier"`
	UnitPrice   float64 `json:"unitPrice"`
	LineTotal   float64 `json:"lineTotal"`
	Comparison  []Quote `json:"comparison"`
}

type SupplierTotal struct {
	Supplier string  `json:"supplier"`
	Total    float64 `json:"total"`
	Lines    int     `json:"lines"`
}

// PurchasePlan is the complete result of one analysis run. It is built once
// by the allocator and only read afterwards.
type PurchasePlan struct {
	Suppliers      []string        `json:"suppliers"`
	Lines          []PurchaseLine  `json:"lines"`
	SupplierTotals []SupplierTotal `json:"supplierTotals"`
	Unmatched      []string        `json:"unmatched"`
	GrandTotal     float64         `json:"grandTotal"`
	Notes          []string        `json:"notes"`
}

// LinesFor returns the lines won by supplier in plan order.
func (p PurchasePlan) LinesFor(supplier string) []PurchaseLine {
	var out []PurchaseLine
	for _, l := range p.Lines {
		if l.Supplier == supplier {
			out = append(out, l)
		}
	}
	return out
}

// TotalFor returns the spend with supplier and whether it won any line.
func (p PurchasePlan) TotalFor(supplier string) (float64, bool) {
	for _, t := range p.SupplierTotals {
		if t.Supplier == supplier {
			return t.Total, true
		}
	}
	return 0, false
}

func (p PurchasePlan) Empty() bool { return len(p.Lines) == 0 }

// ProductKey: "name" или "name|spec".
func ProductKey(product, spec string) string {
	if spec == "" {
		return product
	}
	return product + "|" + spec
}

// DisplayName: "name" или "name (spec)".
func DisplayName(product, spec string) string {
	if spec == "" {
		return product
	}
	return product + " (" + spec + ")"
}

// MatchKey: ключ сравнения: без учёта регистра и крайних пробелов.
func MatchKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// Options: настройки подсказок для ненайденных позиций.
type Options struct {
	SuggestThreshold float64 // порог схожести (0..1)
	MaxSuggestions   int     // 0 = подсказки выключены
}

func DefaultOptions() Options {
	return Options{SuggestThreshold: 0.6, MaxSuggestions: 3}
}

const (
	MinSuppliers = 2
	MaxSuppliers = 5
)
