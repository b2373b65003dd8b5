package fileio

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// readCSV reads CSV, auto-detecting encoding and converting to UTF-8.
// It supports UTF-8, GB18030/GBK and Windows-1251 out of the box; ";" is
// accepted as the separator when the first line has no commas.
func readCSV(r io.Reader) ([][]string, error) {
	br := bufio.NewReader(r)

	// Peek a bit to detect encoding
	peek, _ := br.Peek(2048)
	cs := "utf-8"
	if len(peek) > 0 {
		if det, err := chardet.NewTextDetector().DetectBest(peek); err == nil && det != nil {
			cs = strings.ToLower(det.Charset)
		}
	}

	var dec io.Reader = br
	switch cs {
	case "windows-1251", "cp1251":
		dec = transform.NewReader(br, charmap.Windows1251.NewDecoder())
	case "gb-18030", "gb18030", "gbk", "gb2312":
		dec = transform.NewReader(br, simplifiedchinese.GB18030.NewDecoder())
	default:
		// assume UTF-8; BOM от Excel срезаем
		dec = transform.NewReader(br, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	}

	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	// "Excel по-европейски" сохраняет CSV через ";"
	if first := strings.SplitN(string(peek), "\n", 2)[0]; !strings.Contains(first, ",") && strings.Contains(first, ";") {
		cr.Comma = ';'
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for i := range rec {
			rec[i] = normalizeCell(rec[i])
		}
		rows = append(rows, rec)
	}
	return rows, nil
}
