// Package config loads the advisor configuration: a YAML file for paths,
// addresses and intervals, merged over built-in defaults, with secrets
// taken from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration parses "5m" / "6h" style YAML values into a time.Duration.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the standard-library duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the full advisor configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Data     DataConfig     `yaml:"data"`
	Scrape   ScrapeConfig   `yaml:"scrape"`
	LLM      LLMConfig      `yaml:"llm"`
	Semantic SemanticConfig `yaml:"semantic"`

	// Env-only values, never read from YAML.
	GeminiAPIKey string `yaml:"-"`
	ChromaKey    string `yaml:"-"`
	ChromaTenant string `yaml:"-"`
	ChromaDB     string `yaml:"-"`
}

// ServerConfig holds the HTTP listen settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DataConfig holds dataset and prompt file locations.
type DataConfig struct {
	GraphFile     string `yaml:"graph_file"`
	LecturersFile string `yaml:"lecturers_file"`
	SubjectsFile  string `yaml:"subjects_file"`
	TermFile      string `yaml:"term_file"`
	ChatPrompt    string `yaml:"chat_prompt"`
	ExtractPrompt string `yaml:"extract_prompt"`
	ChromaDir     string `yaml:"chroma_dir"`
}

// ScrapeConfig holds scraper endpoints and cadences.
type ScrapeConfig struct {
	CourseInterval   Duration `yaml:"course_interval"`
	LecturerInterval Duration `yaml:"lecturer_interval"`
	BannerURL        string   `yaml:"banner_url"`
	BannerReferer    string   `yaml:"banner_referer"`
	CatalogURL       string   `yaml:"catalog_url"`
	RMPProxyURL      string   `yaml:"rmp_proxy_url"`
}

// LLMConfig holds model selection.
type LLMConfig struct {
	ChatModel    string `yaml:"chat_model"`
	ExtractModel string `yaml:"extract_model"`
}

// SemanticConfig holds the vector collection and re-ranker address.
type SemanticConfig struct {
	Collection      string `yaml:"collection"`
	CrossEncoderURL string `yaml:"cross_encoder_url"`
}

// loadEnv pulls secrets and reserved remote-store credentials from the
// environment.
func (c *Config) loadEnv() {
	c.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	c.ChromaKey = os.Getenv("CHROMA_KEY")
	c.ChromaTenant = os.Getenv("CHROMA_TENANT")
	c.ChromaDB = os.Getenv("CHROMA_DB")
}

// Validate checks the settings every process needs. The Gemini key is
// checked by the callers that actually talk to the model, so offline
// tooling can run without it.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr cannot be empty")
	}
	if c.Scrape.CourseInterval <= 0 {
		return fmt.Errorf("scrape.course_interval must be positive")
	}
	if c.Scrape.LecturerInterval <= 0 {
		return fmt.Errorf("scrape.lecturer_interval must be positive")
	}
	if c.Semantic.Collection == "" {
		return fmt.Errorf("semantic.collection cannot be empty")
	}
	return nil
}
