package fileio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"procure-service/internal/procure/model"
)

// ReadTable: выберет парсер по расширению и вернёт таблицу: заголовки +
// строки как map[header]value в исходном порядке.
// headerRow: номер строки заголовков (1-based).
func ReadTable(r io.Reader, filename string, headerRow int) (model.Table, error) {
	if headerRow < 1 {
		headerRow = 1
	}
	var (
		rows [][]string
		err  error
	)
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(r)
	case ".xls":
		rows, err = readXLS(r)
	case ".csv":
		rows, err = readCSV(r)
	default:
		return model.Table{}, fmt.Errorf("unsupported file: %s", filename)
	}
	if err != nil {
		return model.Table{}, fmt.Errorf("read %s: %w", filepath.Base(filename), err)
	}
	if len(rows) == 0 {
		return model.Table{}, nil
	}
	h := pickHeader(rows, headerRow)
	return model.Table{Columns: h, Rows: rowsToMaps(rows, h, headerRow)}, nil
}

// OpenTable reads a table from disk; a missing file is reported as is.
func OpenTable(path string, headerRow int) (model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Table{}, err
	}
	defer f.Close()
	return ReadTable(f, path, headerRow)
}

// pickHeader: берёт строку заголовков и подставляет Column N для пустых.
// Дубликаты получают суффикс " (2)", чтобы не затирать друг друга в map.
func pickHeader(rows [][]string, headerRow int) []string {
	idx := headerRow - 1
	if idx >= len(rows) {
		idx = 0
	}
	h := rows[idx]
	out := make([]string, len(h))
	seen := make(map[string]int, len(h))
	for i, v := range h {
		v = strings.TrimSpace(v)
		if v == "" {
			v = fmt.Sprintf("Column %d", i+1)
		}
		seen[v]++
		if n := seen[v]; n > 1 {
			v = fmt.Sprintf("%s (%d)", v, n)
		}
		out[i] = v
	}
	return out
}

// rowsToMaps: конвертирует AoA в []map по заголовкам, пропуская полностью пустые строки.
func rowsToMaps(rows [][]string, headers []string, headerRow int) []map[string]string {
	start := headerRow // первая строка после заголовков
	var out []map[string]string
	for r := start; r < len(rows); r++ {
		rec := rows[r]
		m := make(map[string]string, len(headers))
		empty := true
		for c := 0; c < len(headers); c++ {
			var v string
			if c < len(rec) {
				v = rec[c]
			}
			if strings.TrimSpace(v) != "" {
				empty = false
			}
			m[headers[c]] = v
		}
		if !empty {
			out = append(out, m)
		}
	}
	return out
}

// normalizeCell: NBSP/NNBSP → пробел, обрезка.
func normalizeCell(s string) string {
	s = strings.NewReplacer("\u00A0", " ", "\u202F", " ").Replace(s)
	return strings.TrimSpace(s)
}
