package config

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	ledgerconfig "github.com/gaze-network/commission-ledger/modules/ledger/config"
	"github.com/gaze-network/commission-ledger/pkg/logger"
	"github.com/gaze-network/commission-ledger/pkg/logger/slogx"
	"github.com/gaze-network/commission-ledger/pkg/middleware/requestcontext"
	"github.com/gaze-network/commission-ledger/pkg/middleware/requestlogger"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	isInit     bool
	mu         sync.Mutex
	configOnce sync.Once
	config     = &Config{
		Logger: logger.Config{
			Output: "TEXT",
		},
		HTTPServer: HTTPServerConfig{
			Port: 8080,
			Logger: requestlogger.Config{
				HiddenRequestHeaders: []string{"Authorization"},
				SkipPaths:            []string{"/", "/metrics"},
			},
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Modules: Modules{
			Ledger: ledgerconfig.Default(),
		},
	}
)

type Config struct {
	Logger     logger.Config    `mapstructure:"logger"`
	HTTPServer HTTPServerConfig `mapstructure:"http_server"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Modules    Modules          `mapstructure:"modules"`
}

type Modules struct {
	Ledger ledgerconfig.Config `mapstructure:"ledger"`
}

type HTTPServerConfig struct {
	Port           int                   `mapstructure:"port"`
	Logger         requestlogger.Config  `mapstructure:"logger"`
	RequestContext requestcontext.Config `mapstructure:"request_context"`
	Proxy          ProxyConfig           `mapstructure:"proxy"`
}

// ProxyConfig controls client ip resolution behind reverse proxies.
type ProxyConfig struct {
	Header         string   `mapstructure:"header"`          // e.g. X-Real-IP, CF-Connecting-IP. Empty uses the remote address.
	TrustedProxies []string `mapstructure:"trusted_proxies"` // IPs or CIDR ranges allowed to set Header.
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Parse parses the configuration from the given file (or ./config.yaml) and environment variables.
func Parse(configFile ...string) Config {
	mu.Lock()
	defer mu.Unlock()
	return parse(configFile...)
}

func parse(configFile ...string) Config {
	ctx := logger.WithContext(context.Background(), slog.String("package", "config"))

	if len(configFile) > 0 && configFile[0] != "" {
		viper.SetConfigFile(configFile[0])
	} else {
		viper.AddConfigPath("./")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := viper.ReadInConfig(); err != nil {
		var errNotfound viper.ConfigFileNotFoundError
		if errors.As(err, &errNotfound) {
			logger.WarnContext(ctx, "Config file not found, use default config value", slogx.Error(err))
		} else {
			logger.PanicContext(ctx, "Invalid config file", slogx.Error(err))
		}
	}

	if err := viper.Unmarshal(&config); err != nil {
		logger.PanicContext(ctx, "Something went wrong, failed to unmarshal config", slogx.Error(err))
	}

	isInit = true
	return *config
}

// Load returns the configuration, parsing it once if it was not parsed yet.
func Load() Config {
	mu.Lock()
	defer mu.Unlock()
	configOnce.Do(func() {
		if !isInit {
			parse()
		}
	})
	return *config
}

// BindPFlag binds a specific key to a pflag (as used by cobra).
func BindPFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		logger.Panic("Something went wrong, failed to bind flag for config", slog.String("package", "config"), slogx.Error(err))
	}
}
