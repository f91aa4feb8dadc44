package config

import (
	"fmt"
	"maps"
	"os"
	"strings"
	"time"

	"go.yaml.in/yaml/v2"
)

const (
	DefaultUserAgent      = "pdftools/1.0 (pdf text extractor; +https://github.com/joeychilson/pdftools)"
	DefaultAccept         = "application/pdf,text/html;q=0.9,*/*;q=0.8"
	DefaultAcceptLanguage = "en-US,en;q=0.9"

	EngineLayout = "layout"
	EngineMuPDF  = "mupdf"
)

// Config represents the top-level configuration shared by both commands.
type Config struct {
	Fetch   FetchConfig   `yaml:"fetch"`
	Extract ExtractConfig `yaml:"extract"`
	Render  RenderConfig  `yaml:"render"`
	Log     LogConfig     `yaml:"log"`
}

// New returns a new Config with sensible defaults.
func New() *Config {
	insecure := true
	return &Config{
		Fetch: FetchConfig{
			Timeout:            30 * time.Second,
			FollowRedirects:    true,
			InsecureSkipVerify: &insecure,
		},
		Extract: ExtractConfig{
			Engine: EngineLayout,
		},
		Render: RenderConfig{
			DPI:     150,
			Quality: 80,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// FetchConfig defines how PDFs are downloaded.
type FetchConfig struct {
	Timeout         time.Duration     `yaml:"timeout,omitempty"`
	UserAgent       string            `yaml:"user_agent,omitempty"`
	Headers         map[string]string `yaml:"headers,omitempty"`
	FollowRedirects bool              `yaml:"follow_redirects,omitempty"`
	MaxRedirects    int               `yaml:"max_redirects,omitempty"`
	MaxBodySize     int64             `yaml:"max_body_size,omitempty"`

	// InsecureSkipVerify disables TLS certificate validation for upstream hosts.
	// Nil means the default, which is to skip verification: some PDF sources serve
	// self-signed or expired certificates.
	InsecureSkipVerify *bool `yaml:"insecure_skip_verify,omitempty"`

	EnableSSRFProtection bool `yaml:"enable_ssrf_protection,omitempty"`
}

// GetTimeout returns the request timeout with a default of 30 seconds.
func (f *FetchConfig) GetTimeout() time.Duration {
	if f.Timeout > 0 {
		return f.Timeout
	}
	return 30 * time.Second
}

// GetHeaders returns the headers to use for a request.
func (f *FetchConfig) GetHeaders() map[string]string {
	headers := map[string]string{
		"User-Agent":      DefaultUserAgent,
		"Accept":          DefaultAccept,
		"Accept-Language": DefaultAcceptLanguage,
	}
	if f.UserAgent != "" {
		headers["User-Agent"] = f.UserAgent
	}
	maps.Copy(headers, f.Headers)
	return headers
}

// GetMaxRedirects returns the max number of redirects with a default of 10.
func (f *FetchConfig) GetMaxRedirects() int {
	if f.MaxRedirects > 0 {
		return f.MaxRedirects
	}
	if !f.FollowRedirects {
		return 0
	}
	return 10
}

// GetMaxBodySize returns the maximum response body size with a default of 100MB.
func (f *FetchConfig) GetMaxBodySize() int64 {
	if f.MaxBodySize > 0 {
		return f.MaxBodySize
	}
	return 100 * 1024 * 1024
}

// SkipTLSVerify reports whether certificate validation is disabled (default: true).
func (f *FetchConfig) SkipTLSVerify() bool {
	if f.InsecureSkipVerify == nil {
		return true
	}
	return *f.InsecureSkipVerify
}

// ExtractConfig selects how text is pulled out of a downloaded PDF.
type ExtractConfig struct {
	Engine string `yaml:"engine,omitempty"`
}

// GetEngine returns the extraction engine with a default of "layout".
func (e *ExtractConfig) GetEngine() string {
	if e.Engine == "" {
		return EngineLayout
	}
	return strings.ToLower(e.Engine)
}

// RenderConfig defines rasterization and JPEG encoding settings.
type RenderConfig struct {
	DPI     int `yaml:"dpi,omitempty"`
	Quality int `yaml:"quality,omitempty"`
}

// GetDPI returns the rasterization resolution with a default of 150.
func (r *RenderConfig) GetDPI() int {
	if r.DPI > 0 {
		return r.DPI
	}
	return 150
}

// GetQuality returns the JPEG quality with a default of 80.
func (r *RenderConfig) GetQuality() int {
	if r.Quality > 0 {
		return r.Quality
	}
	return 80
}

// LogConfig controls diagnostic output on stderr.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Load returns the defaults when path is empty, otherwise the file merged over them.
func Load(path string) (*Config, error) {
	if path == "" {
		return New(), nil
	}
	return LoadConfig(path)
}

// LoadConfig loads configuration from a YAML file. Keys absent from the file keep
// their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := New()
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for errors and conflicts.
func (c *Config) Validate() error {
	if err := c.validateFetch(c.Fetch); err != nil {
		return err
	}
	if err := c.validateExtract(c.Extract); err != nil {
		return err
	}
	if err := c.validateRender(c.Render); err != nil {
		return err
	}
	return c.validateLog(c.Log)
}

func (c *Config) validateFetch(f FetchConfig) error {
	if f.Timeout < 0 {
		return fmt.Errorf("fetch: 'timeout' must be >= 0")
	}

	if f.MaxRedirects < 0 {
		return fmt.Errorf("fetch: 'max_redirects' must be >= 0")
	}

	if f.MaxBodySize < 0 {
		return fmt.Errorf("fetch: 'max_body_size' must be >= 0")
	}

	for name := range f.Headers {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("fetch.headers: header name cannot be empty")
		}
	}

	return nil
}

func (c *Config) validateExtract(e ExtractConfig) error {
	switch e.GetEngine() {
	case EngineLayout, EngineMuPDF:
		return nil
	default:
		return fmt.Errorf("extract: 'engine' must be %q or %q (got %q)", EngineLayout, EngineMuPDF, e.Engine)
	}
}

func (c *Config) validateRender(r RenderConfig) error {
	if r.DPI < 0 || r.DPI > 1200 {
		return fmt.Errorf("render: 'dpi' must be between 1 and 1200 (got %d)", r.DPI)
	}

	if r.Quality < 0 || r.Quality > 100 {
		return fmt.Errorf("render: 'quality' must be between 1 and 100 (got %d)", r.Quality)
	}

	return nil
}

func (c *Config) validateLog(l LogConfig) error {
	switch strings.ToLower(l.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log: unknown 'level' %q", l.Level)
	}

	switch strings.ToLower(l.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log: 'format' must be 'text' or 'json' (got %q)", l.Format)
	}

	return nil
}
