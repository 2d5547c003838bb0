package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig
	RateLimit  RateLimitConfig

	// Intent audit
	Intent IntentConfig
	Run    RunConfig
	Sweep  SweepConfig
	Train  TrainConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type RateLimitConfig struct {
	RequestsPerMin int
}

// IntentConfig locates the taxonomy, the rules and the optional model.
type IntentConfig struct {
	TaxonomyPath string
	RulesPath    string
	ModelDir     string
	UseModel     bool
	CacheSize    int
}

// RunConfig controls where runs read from and write to.
type RunConfig struct {
	DefaultInputPath string
	OutputBaseDir    string
	IndexPath        string
	MirrorPath       string // empty disables the sqlite mirror
	Seed             int64
	Notes            string
}

type SweepConfig struct {
	MultiLabelThresholds []float64
	AmbiguousMargins     []float64
	MinConfidences       []float64
	OutputPath           string
}

type TrainConfig struct {
	DataPaths    []string
	Iterations   int
	LearningRate float64
	L2           float64
	MaxFeatures  int
}

// Load loads configuration using the global viper instance, so flags bound
// by the caller take precedence.
// Config file name: config.yaml, searched in ./config, ., /etc/intent-audit/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/intent-audit/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")
	cfg.RateLimit.RequestsPerMin = viper.GetInt("ratelimit.requests_per_min")

	// Intent
	cfg.Intent.TaxonomyPath = viper.GetString("intent.taxonomy_path")
	cfg.Intent.RulesPath = viper.GetString("intent.rules_path")
	cfg.Intent.ModelDir = viper.GetString("intent.model_dir")
	cfg.Intent.UseModel = viper.GetBool("intent.use_model")
	cfg.Intent.CacheSize = viper.GetInt("intent.cache_size")

	// Runs
	cfg.Run.DefaultInputPath = viper.GetString("run.default_input_path")
	cfg.Run.OutputBaseDir = viper.GetString("run.output_base_dir")
	cfg.Run.IndexPath = viper.GetString("run.index_path")
	cfg.Run.MirrorPath = viper.GetString("run.mirror_path")
	cfg.Run.Seed = viper.GetInt64("run.seed")
	cfg.Run.Notes = viper.GetString("run.notes")

	// Sweep
	var err error
	if cfg.Sweep.MultiLabelThresholds, err = floats("sweep.multi_label_thresholds"); err != nil {
		return nil, err
	}
	if cfg.Sweep.AmbiguousMargins, err = floats("sweep.ambiguous_margins"); err != nil {
		return nil, err
	}
	if cfg.Sweep.MinConfidences, err = floats("sweep.min_confidences"); err != nil {
		return nil, err
	}
	cfg.Sweep.OutputPath = viper.GetString("sweep.output_path")

	// Train
	cfg.Train.DataPaths = splitList(viper.GetStringSlice("train.data_paths"))
	cfg.Train.Iterations = viper.GetInt("train.iterations")
	cfg.Train.LearningRate = viper.GetFloat64("train.learning_rate")
	cfg.Train.L2 = viper.GetFloat64("train.l2")
	cfg.Train.MaxFeatures = viper.GetInt("train.max_features")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.Intent.TaxonomyPath == "" {
		return errors.New("intent.taxonomy_path is required")
	}
	if cfg.Intent.RulesPath == "" {
		return errors.New("intent.rules_path is required")
	}
	if cfg.Run.OutputBaseDir == "" {
		return errors.New("run.output_base_dir is required")
	}
	if cfg.Run.IndexPath == "" {
		return errors.New("run.index_path is required")
	}
	if cfg.Intent.UseModel && cfg.Intent.ModelDir == "" {
		return errors.New("intent.model_dir is required when intent.use_model is set")
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)
	viper.SetDefault("ratelimit.requests_per_min", 120)

	viper.SetDefault("intent.taxonomy_path", "config/intent_taxonomy.yaml")
	viper.SetDefault("intent.rules_path", "config/intent_rules.yaml")
	viper.SetDefault("intent.model_dir", "models/intent")
	viper.SetDefault("intent.use_model", false)
	viper.SetDefault("intent.cache_size", 4096)

	viper.SetDefault("run.default_input_path", "datasets/intent/test.jsonl")
	viper.SetDefault("run.output_base_dir", "runs")
	viper.SetDefault("run.index_path", "runs/_index/index.jsonl")
	viper.SetDefault("run.mirror_path", "runs/_index/index.db")
	viper.SetDefault("run.seed", 42)

	viper.SetDefault("sweep.multi_label_thresholds", []float64{0.4, 0.5, 0.6, 0.7})
	viper.SetDefault("sweep.ambiguous_margins", []float64{0.05, 0.1, 0.15, 0.2})
	viper.SetDefault("sweep.min_confidences", []float64{0.3, 0.4, 0.5})
	viper.SetDefault("sweep.output_path", "runs/_sweep/sweep.csv")

	viper.SetDefault("train.iterations", 300)
	viper.SetDefault("train.learning_rate", 0.5)
	viper.SetDefault("train.l2", 1e-4)
	viper.SetDefault("train.max_features", 20000)
}

// floats reads a list of numbers from YAML or a comma-separated env value.
func floats(key string) ([]float64, error) {
	raw := viper.Get(key)
	var items []any
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []float64:
		return v, nil
	case []any:
		items = v
	case string:
		for _, s := range splitList([]string{v}) {
			items = append(items, s)
		}
	default:
		return nil, fmt.Errorf("%s: expected a list of numbers, got %T", key, raw)
	}

	out := make([]float64, 0, len(items))
	for _, it := range items {
		var f float64
		switch n := it.(type) {
		case float64:
			f = n
		case int:
			f = float64(n)
		case string:
			if _, err := fmt.Sscanf(strings.TrimSpace(n), "%g", &f); err != nil {
				return nil, fmt.Errorf("%s: %q is not a number", key, n)
			}
		default:
			return nil, fmt.Errorf("%s: %v is not a number", key, it)
		}
		out = append(out, f)
	}
	return out, nil
}

// splitList flattens comma-separated entries, since env values arrive as
// one string.
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
