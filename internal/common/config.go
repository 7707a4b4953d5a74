package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	OCR     OCRConfig
	Ledger  LedgerConfig
	Fields  FieldsConfig
	History HistoryConfig
}

// OCRConfig holds text-extraction configuration
type OCRConfig struct {
	Pdftotext     string
	Pdftoppm      string
	Tesseract     string
	TesseractLang string
	TessdataDir   string
	DPI           int
	MaxPages      int
	MinTextChars  int
}

// LedgerConfig holds ledger-source configuration
type LedgerConfig struct {
	// PGQuery must select a single text column of invoice numbers.
	PGQuery     string
	DialTimeout time.Duration
}

// FieldsConfig holds field-extraction configuration
type FieldsConfig struct {
	// RulesFile optionally overrides the built-in extraction rules.
	RulesFile string
}

// HistoryConfig holds batch-history store configuration
type HistoryConfig struct {
	DBPath string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		OCR: OCRConfig{
			Pdftotext:     getEnv("PDFTOTEXT_BIN", "pdftotext"),
			Pdftoppm:      getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:     getEnv("TESSERACT_BIN", "tesseract"),
			TesseractLang: getEnv("TESSERACT_LANG", "eng"),
			TessdataDir:   getEnv("TESSDATA_PREFIX", ""),
			DPI:           getEnvAsInt("OCR_DPI", 300),
			MaxPages:      getEnvAsInt("OCR_MAX_PAGES", 0),
			MinTextChars:  getEnvAsInt("OCR_MIN_TEXT_CHARS", 32),
		},
		Ledger: LedgerConfig{
			PGQuery:     getEnv("LEDGER_PG_QUERY", `SELECT "InvoiceNumber" FROM purchase_orders`),
			DialTimeout: getEnvAsDuration("LEDGER_DIAL_TIMEOUT", 3*time.Second),
		},
		Fields: FieldsConfig{
			RulesFile: getEnv("RULES_FILE", ""),
		},
		History: HistoryConfig{
			DBPath: getEnv("HISTORY_DB", ""),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
