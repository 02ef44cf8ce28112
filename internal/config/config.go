package config

import (
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config raíz de la aplicación. Se carga desde YAML opcional + env vars.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Extract  ExtractConfig  `yaml:"extract"`
	Report   ReportConfig   `yaml:"report"`
	Plans    PlansConfig    `yaml:"plans"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port         int           `yaml:"port"          env:"PORT"                 env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout"  env:"SERVER_READ_TIMEOUT"  env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"60s"`
}

// DatabaseConfig: si DSN está vacío se usan repos in-memory (modo dev).
type DatabaseConfig struct {
	DSN          string `yaml:"dsn"            env:"DB_DSN"`
	AutoMigrate  bool   `yaml:"auto_migrate"   env:"DB_AUTO_MIGRATE"   env-default:"true"`
	MaxOpenConns int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"10"`
}

type AuthConfig struct {
	BaseURL string        `yaml:"base_url" env:"AUTH_BASE_URL"`
	APIKey  string        `yaml:"api_key"  env:"AUTH_API_KEY"`
	Timeout time.Duration `yaml:"timeout"  env:"AUTH_TIMEOUT" env-default:"5s"`
}

// ExtractConfig controla la extracción de texto (PDF + OCR).
type ExtractConfig struct {
	Tesseract     string        `yaml:"tesseract"      env:"OCR_TESSERACT" env-default:"tesseract"`
	TesseractLang string        `yaml:"tesseract_lang" env:"OCR_LANG"      env-default:"eng"`
	TessdataDir   string        `yaml:"tessdata_dir"   env:"OCR_TESSDATA_DIR"`
	Timeout       time.Duration `yaml:"timeout"        env:"EXTRACT_TIMEOUT" env-default:"30s"`
	MaxConcurrent int           `yaml:"max_concurrent" env:"EXTRACT_MAX_CONCURRENT" env-default:"2"`
	MaxFileBytes  int64         `yaml:"max_file_bytes" env:"EXTRACT_MAX_FILE_BYTES" env-default:"10485760"`
}

// ReportConfig apunta al servicio externo que sintetiza reportes de salud.
type ReportConfig struct {
	BaseURL string        `yaml:"base_url" env:"REPORT_BASE_URL"`
	APIKey  string        `yaml:"api_key"  env:"REPORT_API_KEY"`
	Timeout time.Duration `yaml:"timeout"  env:"REPORT_TIMEOUT" env-default:"45s"`
}

type PlansConfig struct {
	BaseURL  string        `yaml:"base_url"  env:"PLANS_BASE_URL"`
	APIKey   string        `yaml:"api_key"   env:"PLANS_API_KEY"`
	Timeout  time.Duration `yaml:"timeout"   env:"PLANS_TIMEOUT" env-default:"5s"`
	AllowAll bool          `yaml:"allow_all" env:"ALLOW_ALL_CAPABILITIES" env-default:"false"`
}

type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
	App    string `yaml:"app"    env:"APP_NAME"   env-default:"pet-health-records"`
}

// Load lee CONFIG_PATH (yaml) si está definido y luego pisa con env vars.
func Load() (Config, error) {
	var cfg Config

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, err
		}
		return cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
