package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/dgallion1/docstruct/internal/scoring"
)

type Config struct {
	Port string `mapstructure:"port"`

	// Auth
	APIKey string `mapstructure:"api_key"`

	// Worker pool
	WorkerCount  int `mapstructure:"worker_count"`
	MaxQueueSize int `mapstructure:"max_queue_size"`

	// Upload limits
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`

	// Chunking defaults
	ChunkSize    int `mapstructure:"chunk_size"`
	ChunkOverlap int `mapstructure:"chunk_overlap"`

	// Job state
	JobTTL time.Duration `mapstructure:"job_ttl"`

	// PDF
	PDFFallbackPdftotext bool `mapstructure:"pdf_fallback_pdftotext"`

	// Default scoring weights, overridable per request.
	Weights scoring.Weights `mapstructure:"weights"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Port:                 "8090",
		WorkerCount:          4,
		MaxQueueSize:         100,
		MaxUploadBytes:       52428800, // 50MB
		ChunkSize:            1500,
		ChunkOverlap:         200,
		JobTTL:               1 * time.Hour,
		PDFFallbackPdftotext: true,
		Weights:              scoring.DefaultWeights(),
	}
}

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	v         *viper.Viper
	mu        sync.RWMutex
	config    Config
	callbacks []func(Config)
}

// NewManager reads defaults, an optional config file and DOCSTRUCT_*
// environment variables. Without cfgFile it looks for docstruct.yaml in the
// working directory and $HOME/.docstruct.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{v: viper.New()}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// Load is a one-shot NewManager(cfgFile).Get().
func Load(cfgFile string) (Config, error) {
	cm, err := NewManager(cfgFile)
	if err != nil {
		return Config{}, err
	}
	return cm.Get(), nil
}

func (cm *Manager) initViper(cfgFile string) error {
	v := cm.v
	d := Defaults()
	v.SetDefault("port", d.Port)
	v.SetDefault("api_key", "")
	v.SetDefault("worker_count", d.WorkerCount)
	v.SetDefault("max_queue_size", d.MaxQueueSize)
	v.SetDefault("max_upload_bytes", d.MaxUploadBytes)
	v.SetDefault("chunk_size", d.ChunkSize)
	v.SetDefault("chunk_overlap", d.ChunkOverlap)
	v.SetDefault("job_ttl", d.JobTTL)
	v.SetDefault("pdf_fallback_pdftotext", d.PDFFallbackPdftotext)
	v.SetDefault("weights.font_factor", d.Weights.FontFactor)
	v.SetDefault("weights.color_factor", d.Weights.ColorFactor)
	v.SetDefault("weights.size_factor", d.Weights.SizeFactor)
	v.SetDefault("weights.bold_bonus", d.Weights.BoldBonus)
	v.SetDefault("weights.upper_bonus", d.Weights.UpperBonus)

	// Environment variables with DOCSTRUCT_ prefix, e.g. DOCSTRUCT_WEIGHTS_BOLD_BONUS.
	v.SetEnvPrefix("DOCSTRUCT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("docstruct")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.docstruct")
	}

	// The config file is optional.
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config and clamps values that
// would leave the service unusable back to their defaults.
func (cm *Manager) load() (Config, error) {
	var cfg Config
	if err := cm.v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.APIKey = ResolveEnvVars(cfg.APIKey)

	d := Defaults()
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = d.WorkerCount
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = d.MaxQueueSize
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = d.MaxUploadBytes
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = d.ChunkSize
	}
	if cfg.ChunkOverlap < 0 {
		cfg.ChunkOverlap = d.ChunkOverlap
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = d.JobTTL
	}
	return cfg, nil
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// ConfigFile is the path of the file in use, or "" when none was found.
func (cm *Manager) ConfigFile() string {
	return cm.v.ConfigFileUsed()
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of the config file. Reloads that fail to
// parse or validate keep the previous configuration.
func (cm *Manager) WatchConfig() {
	cm.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err != nil || cfg.Weights.Validate() != nil {
			return
		}

		cm.mu.Lock()
		cm.config = cfg
		callbacks := make([]func(Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	cm.v.WatchConfig()
}

// Validate checks what the HTTP service needs before it can start.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("DOCSTRUCT_API_KEY is required")
	}
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("weights: %w", err)
	}
	return nil
}

var envRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	return envRef.ReplaceAllStringFunc(value, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})
}
