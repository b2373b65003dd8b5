package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// валюта допускается только в начале или в конце ячейки
var currencyAffixes = []string{
	"руб.", "руб", "р.", "rmb", "cny", "usd", "rub", "eur", "元",
	"¥", "￥", "$", "€", "₽", "£",
}

var (
	rxNumberChars = regexp.MustCompile(`^-?[\d.,]+$`)
	rxThousands   = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+$`)
	rxPlain       = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)$`)
)

// ParseNumber парсит цену из ячейки прайса: "1 234,50", "197 ,00", "1,234.50",
// "1.234,50", "1,234", "¥12.5", "12 руб.", NBSP/NNBSP внутри числа.
// Любой другой текст в ячейке (буквы, экспонента, "см. строку 7") даёт ok=false.
func ParseNumber(s string) (float64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("\u00A0", "", "\u202F", "", "\u2009", "", " ", "", "\t", "").Replace(s)
	s = trimCurrency(s)
	if s == "" || !rxNumberChars.MatchString(s) {
		return 0, false
	}

	comma, dot := strings.LastIndex(s, ","), strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0:
		// десятичный разделитель тот, что правее: "1,234.50" / "1.234,50"
		if comma > dot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		if rxThousands.MatchString(s) {
			s = strings.ReplaceAll(s, ",", "") // "1,234" / "12,000,000"
		} else {
			s = strings.ReplaceAll(s, ",", ".") // "2,5" / "197,00"
		}
	}

	if !rxPlain.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// trimCurrency срезает по одному символу/коду валюты с каждого края.
func trimCurrency(s string) string {
	for _, c := range currencyAffixes {
		if strings.HasPrefix(s, c) {
			s = s[len(c):]
			break
		}
	}
	for _, c := range currencyAffixes {
		if strings.HasSuffix(s, c) {
			s = s[:len(s)-len(c)]
			break
		}
	}
	return s
}
