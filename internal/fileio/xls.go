package fileio

import (
	"bytes"
	"errors"
	"io"

	xls "github.com/extrame/xls"
)

// ширину листа считаем сами: Row.LastCol() в старых .xls врёт
const xlsProbeCols = 256

// readXLS читает первый лист .xls в прямоугольный [][]string.
func readXLS(r io.Reader) ([][]string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	// старые прайсы бывают в GBK/cp1251, но чаще UTF-8
	var (
		wb      *xls.WorkBook
		lastErr error
	)
	for _, ch := range []string{"utf-8", "gbk", "windows-1251"} {
		wb, lastErr = xls.OpenReader(bytes.NewReader(b), ch)
		if lastErr == nil && wb != nil {
			break
		}
	}
	if wb == nil || lastErr != nil {
		if lastErr == nil {
			lastErr = errors.New("xls: failed to open workbook")
		}
		return nil, lastErr
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, nil
	}

	raw := make([][]string, 0, int(sheet.MaxRow)+1)
	width := 0
	for i := 0; i <= int(sheet.MaxRow); i++ {
		var cols []string
		if row := sheet.Row(i); row != nil {
			cols = make([]string, xlsProbeCols)
			for j := range cols {
				if v := normalizeCell(row.Col(j)); v != "" {
					cols[j] = v
					width = max(width, j+1)
				}
			}
		}
		raw = append(raw, cols)
	}

	// обрезаем до фактической ширины, пустые строки дополняем
	rows := make([][]string, len(raw))
	for i, cols := range raw {
		rows[i] = make([]string, max(width, 1))
		copy(rows[i], cols)
	}
	return rows, nil
}
