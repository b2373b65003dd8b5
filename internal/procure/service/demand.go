package service

import (
	"math"
	"strconv"
	"strings"

	"procure-service/internal/procure/model"
)

// ExampleText: подсказка, которой заполняется пустое поле списка закупки.
// Первая строка начинается с инструктивного префикса и при разборе пропускается.
const ExampleText = "e.g.:\npotato,70cm,100\napple,large,50\ncabbage,,30"

// префиксы строки-примера (сравнение без учёта регистра)
var examplePrefixes = []string{"例如:", "例如：", "example:", "e.g.:"}

func isExampleLine(line string) bool {
	l := strings.ToLower(strings.TrimSpace(line))
	for _, p := range examplePrefixes {
		if strings.HasPrefix(l, p) {
			return true
		}
	}
	return false
}

// ParseDemand parses "name,spec,quantity" lines into demand lines keyed by
// product key, summing duplicates. The second result maps display names to
// summed quantities and is meant for echoing the input back to the buyer.
//
// Line numbers in errors count entry lines of the trimmed text, the example
// line excluded, so "line 1" is the first line the buyer actually typed.
func ParseDemand(text string) (model.Demand, map[string]int, error) {
	var demand model.Demand
	display := make(map[string]int)

	text = strings.TrimSpace(text)
	if text == "" {
		return demand, nil, &EmptyInputError{Reason: "procurement list is empty"}
	}
	lines := strings.Split(text, "\n")
	if isExampleLine(lines[0]) {
		lines = lines[1:]
		if !hasContent(lines) {
			return demand, nil, &EmptyInputError{Reason: "no entries after the example line"}
		}
	}

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		dl, err := parseDemandLine(line, i+1)
		if err != nil {
			return model.Demand{}, nil, err
		}
		// сумма дубликатов не должна переполнить int
		prev, _ := demand.Get(dl.Key)
		if dl.Quantity > math.MaxInt-prev.Quantity || dl.Quantity > math.MaxInt-display[dl.DisplayName()] {
			return model.Demand{}, nil, &InputFormatError{Line: i + 1, Text: line,
				Reason: "total quantity for " + strconv.Quote(dl.DisplayName()) + " is too large"}
		}
		demand.Add(dl)
		display[dl.DisplayName()] += dl.Quantity
	}

	if demand.Len() == 0 {
		return demand, nil, &EmptyInputError{Reason: "no valid entries"}
	}
	return demand, display, nil
}

func parseDemandLine(line string, lineNo int) (model.DemandLine, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 3 {
		return model.DemandLine{}, &InputFormatError{Line: lineNo, Text: line,
			Reason: "expected 3 comma-separated fields, got " + strconv.Itoa(len(parts))}
	}
	name := strings.TrimSpace(parts[0])
	spec := strings.TrimSpace(parts[1])
	qtyStr := strings.TrimSpace(parts[2])

	if name == "" {
		return model.DemandLine{}, &InputFormatError{Line: lineNo, Text: line, Reason: "product name is empty"}
	}
	qty, err := strconv.Atoi(qtyStr)
	if err != nil {
		return model.DemandLine{}, &InputFormatError{Line: lineNo, Text: line,
			Reason: "quantity " + strconv.Quote(qtyStr) + " is not an integer"}
	}
	if qty <= 0 {
		return model.DemandLine{}, &InputFormatError{Line: lineNo, Text: line,
			Reason: "quantity " + strconv.Quote(qtyStr) + " must be a positive integer"}
	}
	return model.DemandLine{
		Product:  name,
		Spec:     spec,
		Quantity: qty,
		Key:      model.ProductKey(name, spec),
	}, nil
}

func hasContent(lines []string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return true
		}
	}
	return false
}
