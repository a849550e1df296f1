// Package config loads the service configuration from a JSON file with
// defaults, environment overrides, and validation at startup.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"translaterag/internal/chunker"
)

// Config is the root configuration for the service.
type Config struct {
	General   GeneralConfig   `json:"general"`
	Ollama    OllamaConfig    `json:"ollama"`
	Store     StoreConfig     `json:"store"`
	Server    ServerConfig    `json:"server"`
	Chunking  ChunkingConfig  `json:"chunking"`
	Retrieval RetrievalConfig `json:"retrieval"`
}

type GeneralConfig struct {
	LogLevel  string `json:"logLevel"` // debug | info | warn | error
	UploadDir string `json:"uploadDir"`
}

type OllamaConfig struct {
	APIBase        string `json:"apiBase"`
	Model          string `json:"model"`
	EmbeddingModel string `json:"embeddingModel"`
	// EmbedTimeoutSeconds bounds embedding calls; GenerateTimeoutSeconds
	// bounds generation calls, which are far slower.
	EmbedTimeoutSeconds    int `json:"embedTimeoutSeconds"`
	GenerateTimeoutSeconds int `json:"generateTimeoutSeconds"`
}

type StoreConfig struct {
	DBPath string `json:"dbPath"`
}

type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// ChunkingConfig carries the two distinct chunking policies. Indexing keeps
// an overlap for context continuity; document translation uses none so no
// text is translated twice.
type ChunkingConfig struct {
	Index     chunker.Policy `json:"index"`
	Translate chunker.Policy `json:"translate"`
}

type RetrievalConfig struct {
	// TranslateTopK snippets back a translation request, AskTopK a question.
	TranslateTopK int `json:"translateTopK"`
	AskTopK       int `json:"askTopK"`
}

func Defaults() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel:  "info",
			UploadDir: "~/.translaterag/uploads",
		},
		Ollama: OllamaConfig{
			APIBase:                "http://localhost:11434",
			Model:                  "llama3.1:8b",
			EmbeddingModel:         "nomic-embed-text",
			EmbedTimeoutSeconds:    60,
			GenerateTimeoutSeconds: 300,
		},
		Store: StoreConfig{
			DBPath: "~/.translaterag/vectors.db",
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8000,
		},
		Chunking: ChunkingConfig{
			Index:     chunker.DefaultIndexPolicy,
			Translate: chunker.DefaultTranslatePolicy,
		},
		Retrieval: RetrievalConfig{
			TranslateTopK: 3,
			AskTopK:       5,
		},
	}
}

func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".translaterag"
	}
	return filepath.Join(home, ".translaterag")
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// Load reads the config file at path, layering it over Defaults and applying
// environment overrides last. A missing file is not an error; defaults plus
// environment are used instead. A .env file in the working directory is
// honoured when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()

	data, err := os.ReadFile(expandPath(path))
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// defaults + env only
	default:
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	applyEnv(cfg)

	cfg.General.UploadDir = expandPath(cfg.General.UploadDir)
	cfg.Store.DBPath = expandPath(cfg.Store.DBPath)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// applyEnv maps the environment variable names of the service's deployments
// onto the config. Environment wins over file values.
func applyEnv(cfg *Config) {
	if v := os.Getenv("OLLAMA_BASE_URL"); v != "" {
		cfg.Ollama.APIBase = v
	}
	if v := os.Getenv("MODEL_NAME"); v != "" {
		cfg.Ollama.Model = v
	}
	if v := os.Getenv("EMBEDDING_MODEL"); v != "" {
		cfg.Ollama.EmbeddingModel = v
	}
	if v := os.Getenv("VECTOR_DB_PATH"); v != "" {
		cfg.Store.DBPath = v
	}
	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		cfg.General.UploadDir = v
	}
}

// Validate checks that the config has valid values.
func Validate(cfg *Config) error {
	var errs []string

	switch cfg.General.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("general.logLevel %q must be debug, info, warn, or error", cfg.General.LogLevel))
	}
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port %d out of range", cfg.Server.Port))
	}
	if cfg.Ollama.EmbedTimeoutSeconds < 1 {
		errs = append(errs, "ollama.embedTimeoutSeconds must be positive")
	}
	if cfg.Ollama.GenerateTimeoutSeconds < 1 {
		errs = append(errs, "ollama.generateTimeoutSeconds must be positive")
	}
	if err := cfg.Chunking.Index.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("chunking.index: %v", err))
	}
	if err := cfg.Chunking.Translate.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("chunking.translate: %v", err))
	}
	if cfg.Retrieval.TranslateTopK < 1 || cfg.Retrieval.AskTopK < 1 {
		errs = append(errs, "retrieval top-k values must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
