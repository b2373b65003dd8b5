package service

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/width"
)

// Нормализация наименований для подсказок (не для сопоставления:
// сопоставление идёт только по MatchKey).

// 0,5 → 0.5
var decComma = regexp.MustCompile(`(\d),(\d)`)

// Единицы измерения, которые приклеиваются к числу
const unitWord = `mm|cm|m|ml|l|kg|g|mg|pcs|%|мм|см|м|мл|л|кг|г|шт|斤|公斤|克|个|只|箱`

// СКЛЕЙКА: "70 cm" → "70cm", "3.2 %" → "3.2%"
var reAttachNumUnit = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)(\s+)(` + unitWord + `)(\s|$)`)

// разрешаем буквы/цифры/пробелы + . %
var punct = regexp.MustCompile(`[^\p{L}\p{N}\s.%]+`)

// suggestNorm: конвейер: ширина → регистр → десятичные → пунктуация →
// склейка число+единица → сортировка токенов.
func suggestNorm(s string) string {
	if s == "" {
		return ""
	}
	// полноширинные символы (ＡＢＣ１２３，（）) → обычные
	out := width.Fold.String(s)
	out = strings.ToLower(out)
	out = strings.ReplaceAll(out, "|", " ")
	out = decComma.ReplaceAllString(out, "$1.$2")
	out = collapseSpaces(punct.ReplaceAllString(out, " "))
	out = attachNumberUnits(out)
	return tokenSort(out)
}

// итеративно, т.к. соседние пары делят пробел
func attachNumberUnits(s string) string {
	prev := ""
	out := s
	for out != prev {
		prev = out
		out = reAttachNumUnit.ReplaceAllString(out, "$1$3$4")
	}
	return collapseSpaces(out)
}

func tokenSort(s string) string {
	f := strings.Fields(s)
	sort.Strings(f)
	return strings.Join(f, " ")
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
