package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/on-the-ground/memo_ive_go/pure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

const (
	EnvPrefix = "RECUR"

	TableMemory = "memory"
	TableMemDB  = "memdb"
	TableTiered = "tiered"
)

var ErrInvalidConfig = fmt.Errorf("invalid config")

// Config is read by viper from defaults, an optional YAML file, RECUR_*
// environment variables and command line flags, in increasing precedence.
type Config struct {
	Recurrence RecurrenceConfig `mapstructure:"recurrence"`
	Table      TableConfig      `mapstructure:"table"`
	Log        LogConfig        `mapstructure:"log"`
	Effect     EffectConfig     `mapstructure:"effect"`
}

type RecurrenceConfig struct {
	Name           string `mapstructure:"name"`            // catalog name, see pure.DefinitionNames
	RecursionLimit int    `mapstructure:"recursion_limit"` // gap to the frontier that triggers bottom-up fill
	MaxDepth       int    `mapstructure:"max_depth"`       // hard recursion depth cap
}

type TableConfig struct {
	Kind      string `mapstructure:"kind"`       // "memory", "memdb", "tiered"
	CacheSize int    `mapstructure:"cache_size"` // hot tier capacity for "tiered"
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type EffectConfig struct {
	Log        HandlerConfig `mapstructure:"log"`
	Recurrence HandlerConfig `mapstructure:"recurrence"`
}

type HandlerConfig struct {
	BufferSize int `mapstructure:"buffer_size"`
	NumWorkers int `mapstructure:"num_workers"`
}

// RegisterFlags adds the flags LoadConfig understands to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(FlagConfig, "", "path to a YAML config file")
	fs.String(FlagRecurrence, "fibonacci", "recurrence to evaluate: "+strings.Join(pure.DefinitionNames(), ", "))
	fs.String(FlagTable, TableMemory, "cache table: memory, memdb or tiered")
	fs.Int(FlagCacheSize, 1024, "hot tier capacity of the tiered table")
	fs.Int(FlagRecursionLimit, 1024, "distance from the cached prefix that switches to bottom-up evaluation")
	fs.Int(FlagWorkers, 4, "recurrence effect workers")
	fs.String(FlagLogLevel, "info", "log level: debug, info, warn or error")
	fs.Bool(FlagList, false, "list the available recurrences and exit")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyRecurrenceName, "fibonacci")
	v.SetDefault(KeyRecurrenceRecursionLimit, 1024)
	v.SetDefault(KeyRecurrenceMaxDepth, 1<<20)

	v.SetDefault(KeyTableKind, TableMemory)
	v.SetDefault(KeyTableCacheSize, 1024)

	v.SetDefault(KeyLogLevel, "info")

	v.SetDefault(KeyEffectLogBufferSize, 16)
	v.SetDefault(KeyEffectRecurrenceBufferSize, 16)
	v.SetDefault(KeyEffectRecurrenceNumWorkers, 4)
}

// LoadConfig builds a Config. configPath may be empty, in which case only
// defaults, environment and flags apply. flags may be nil; only flags that
// were set on the command line override the other sources.
func LoadConfig(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configPath, err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values LoadConfig cannot type check.
func (c *Config) Validate() error {
	if _, ok := pure.LookupDefinition(c.Recurrence.Name); !ok {
		return fmt.Errorf("%w: unknown recurrence %q", ErrInvalidConfig, c.Recurrence.Name)
	}
	if !slices.Contains([]string{TableMemory, TableMemDB, TableTiered}, c.Table.Kind) {
		return fmt.Errorf("%w: unknown table %q", ErrInvalidConfig, c.Table.Kind)
	}
	if c.Table.Kind == TableTiered && c.Table.CacheSize <= 0 {
		return fmt.Errorf("%w: cache size must be positive, got %d", ErrInvalidConfig, c.Table.CacheSize)
	}
	if c.Recurrence.RecursionLimit <= 0 {
		return fmt.Errorf("%w: recursion limit must be positive, got %d", ErrInvalidConfig, c.Recurrence.RecursionLimit)
	}
	if _, err := c.Log.ZapLevel(); err != nil {
		return err
	}
	return nil
}

// ZapLevel parses the configured log level.
func (l LogConfig) ZapLevel() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return lvl, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return lvl, nil
}
