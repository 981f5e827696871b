package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPAddr string

	DataDir   string
	OutputDir string
	UploadDir string
	DBPath    string

	SourceCSVPath     string
	UOMLookupPath     string
	CustomerNamesPath string
	ReportConfigPath  string
	FontDir           string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	dataDir := getEnv("DATA_DIR", filepath.Join(cwd, "data"))
	outputDir := getEnv("OUTPUT_DIR", filepath.Join(cwd, "output"))

	cfg := Config{
		HTTPAddr: getEnv("HTTP_ADDR", "127.0.0.1:"+strconv.Itoa(getEnvInt("PORT", 5000))),

		DataDir:   dataDir,
		OutputDir: outputDir,
		UploadDir: getEnv("UPLOAD_DIR", filepath.Join(dataDir, "uploads")),
		DBPath:    getEnv("DB_PATH", filepath.Join(dataDir, "app.db")),

		SourceCSVPath:     getEnv("SOURCE_CSV", filepath.Join(dataDir, "ex_input.csv")),
		UOMLookupPath:     getEnv("UOM_LOOKUP", filepath.Join(dataDir, "Jednostki.csv")),
		CustomerNamesPath: getEnv("CUSTOMER_NAMES", filepath.Join(dataDir, "NazwyKlienci.csv")),
		ReportConfigPath:  getEnv("REPORT_CONFIG", filepath.Join(cwd, "config.yaml")),
		FontDir:           getEnv("FONT_DIR", filepath.Join(cwd, "static", "fonts")),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// Margins are page margins in millimeters.
type Margins struct {
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
	Top    float64 `yaml:"top"`
	Bottom float64 `yaml:"bottom"`
}

// ReportConfig holds the document-layout options. Every field has a working
// default; a missing or unreadable config file is not an error.
type ReportConfig struct {
	MarginsMM     Margins  `yaml:"margins_mm"`
	Title         string   `yaml:"title"`
	CompanyHeader []string `yaml:"company_header"`
	FooterTexts   []string `yaml:"footer_texts"`
	LogoPath      string   `yaml:"logo_path"`
}

func DefaultReportConfig() ReportConfig {
	return ReportConfig{
		MarginsMM: Margins{Left: 15, Right: 15, Top: 15, Bottom: 18},
		Title:     "Raport",
	}
}

// LoadReportConfig reads the YAML layout file, filling defaults for anything
// unset. Absence of the file yields defaults.
func LoadReportConfig(path string) ReportConfig {
	cfg := DefaultReportConfig()
	blob, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := yaml.Unmarshal(blob, &cfg); err != nil {
		return DefaultReportConfig()
	}
	if cfg.Title == "" {
		cfg.Title = "Raport"
	}
	if cfg.MarginsMM == (Margins{}) {
		cfg.MarginsMM = DefaultReportConfig().MarginsMM
	}
	return cfg
}
