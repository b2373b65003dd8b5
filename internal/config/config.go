package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Host         string
	Port         int
	AllowOrigins []string
	LogLevel     string
	MaxUploadMB  int
	LogFile      string

	// дефолтные имена колонок в прайсах поставщиков
	ProductCol string
	SpecCol    string
	PriceCol   string
	HeaderRow  int

	DraftFile        string  // кэш последнего введённого списка закупки
	SuggestThreshold float64 // порог схожести для подсказок по ненайденным позициям
	MaxSuggestions   int
}

func Load() Config {
	port, _ := strconv.Atoi(getenv("PORT", "8082"))
	mb, _ := strconv.Atoi(getenv("MAX_UPLOAD_MB", "64"))
	headerRow, err := strconv.Atoi(getenv("HEADER_ROW", "1"))
	if err != nil || headerRow < 1 {
		headerRow = 1
	}
	threshold, err := strconv.ParseFloat(getenv("SUGGEST_THRESHOLD", "0.6"), 64)
	if err != nil || threshold <= 0 || threshold > 1 {
		threshold = 0.6
	}
	maxSug, err := strconv.Atoi(getenv("MAX_SUGGESTIONS", "3"))
	if err != nil || maxSug < 0 {
		maxSug = 3
	}
	origins := strings.Split(getenv("ALLOW_ORIGINS", "*"), ",")
	return Config{
		Host:             getenv("HOST", "127.0.0.1"),
		Port:             port,
		AllowOrigins:     origins,
		LogLevel:         getenv("LOG_LEVEL", "info"),
		MaxUploadMB:      mb,
		LogFile:          getenv("LOG_FILE", "logs/procure-service.log"),
		ProductCol:       getenv("PRODUCT_COL", "Product"),
		SpecCol:          lookupenv("SPEC_COL", "Spec"),
		PriceCol:         getenv("PRICE_COL", "Price"),
		HeaderRow:        headerRow,
		DraftFile:        getenv("DRAFT_FILE", "procurement_list_cache.json"),
		SuggestThreshold: threshold,
		MaxSuggestions:   maxSug,
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// lookupenv различает "не задано" и "задано пустым" (пустой SPEC_COL = без колонки спецификации)
func lookupenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok {
		return strings.TrimSpace(v)
	}
	return def
}
