package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/tedpecoulas/claude-skills-mcp/internal/domain"
)

// Config is the loaded gateway configuration: the skill catalog plus runtime
// knobs with defaults applied.
type Config struct {
	Catalog       *domain.Catalog
	CacheTTL      time.Duration
	FetchTimeout  time.Duration
	ListenAddress string
	Observability ObservabilityConfig
}

type ObservabilityConfig struct {
	ListenAddress string
	EnableMetrics bool
	EnableHealthz bool
}

type rawConfig struct {
	CacheTTLSeconds     int              `mapstructure:"cacheTTLSeconds"`
	FetchTimeoutSeconds int              `mapstructure:"fetchTimeoutSeconds"`
	ListenAddress       string           `mapstructure:"listenAddress"`
	Observability       rawObservability `mapstructure:"observability"`
	Skills              []rawSkill       `mapstructure:"skills"`
}

type rawObservability struct {
	ListenAddress string `mapstructure:"listenAddress"`
	EnableMetrics bool   `mapstructure:"enableMetrics"`
	EnableHealthz bool   `mapstructure:"enableHealthz"`
}

type rawSkill struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
	Category    string `mapstructure:"category"`
	SourceURL   string `mapstructure:"sourceUrl"`
	GitHubURL   string `mapstructure:"githubUrl"`
}

type Loader struct {
	logger *zap.Logger
}

func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		return &Loader{logger: zap.NewNop()}
	}
	return &Loader{logger: logger.Named("catalog")}
}

func newConfigViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("cacheTTLSeconds", domain.DefaultCacheTTLSeconds)
	v.SetDefault("fetchTimeoutSeconds", domain.DefaultFetchTimeoutSeconds)
	v.SetDefault("listenAddress", domain.DefaultListenAddress)
	v.SetDefault("observability.listenAddress", domain.DefaultObservabilityListenAddress)
	v.SetDefault("observability.enableMetrics", true)
	v.SetDefault("observability.enableHealthz", true)
}

// Load reads the gateway config from path. An empty path yields the built-in
// catalog with default runtime settings.
func (l *Loader) Load(ctx context.Context, path string) (Config, error) {
	v := newConfigViper()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		expanded, missing, err := expandConfigEnv(data)
		if err != nil {
			return Config{}, err
		}
		if len(missing) > 0 {
			l.logger.Warn("missing environment variables in config",
				zap.String("path", path), zap.Strings("missing", missing))
		}
		if err := v.ReadConfig(strings.NewReader(expanded)); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return Config{}, err
	}

	var raw rawConfig
	if err := v.Unmarshal(&raw); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	skills, errs := normalizeSkills(raw.Skills)
	if len(errs) > 0 {
		return Config{}, errors.New(strings.Join(errs, "; "))
	}
	if len(skills) == 0 {
		l.logger.Info("no skills configured, using builtin catalog")
		skills = BuiltinSkills()
	}

	cfg := Config{
		Catalog:       domain.NewCatalog(skills),
		CacheTTL:      time.Duration(raw.CacheTTLSeconds) * time.Second,
		FetchTimeout:  time.Duration(raw.FetchTimeoutSeconds) * time.Second,
		ListenAddress: raw.ListenAddress,
		Observability: ObservabilityConfig{
			ListenAddress: raw.Observability.ListenAddress,
			EnableMetrics: raw.Observability.EnableMetrics,
			EnableHealthz: raw.Observability.EnableHealthz,
		},
	}

	if cfg.CacheTTL <= 0 {
		return Config{}, fmt.Errorf("cacheTTLSeconds must be > 0, got %d", raw.CacheTTLSeconds)
	}
	if cfg.FetchTimeout <= 0 {
		return Config{}, fmt.Errorf("fetchTimeoutSeconds must be > 0, got %d", raw.FetchTimeoutSeconds)
	}

	l.logger.Info("catalog loaded", zap.Int("skills", cfg.Catalog.Len()))
	return cfg, nil
}

func normalizeSkills(raws []rawSkill) ([]domain.Skill, []string) {
	skills := make([]domain.Skill, 0, len(raws))
	var errs []string
	seen := make(map[string]struct{})

	for i, raw := range raws {
		name := strings.TrimSpace(raw.Name)
		if name == "" {
			errs = append(errs, fmt.Sprintf("skills[%d]: name is required", i))
			continue
		}
		if _, exists := seen[name]; exists {
			errs = append(errs, fmt.Sprintf("skills[%d]: duplicate name %q", i, name))
			continue
		}
		seen[name] = struct{}{}

		if raw.SourceURL == "" {
			errs = append(errs, fmt.Sprintf("skills[%d]: sourceUrl is required", i))
			continue
		}
		if parsed, err := url.Parse(raw.SourceURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
			errs = append(errs, fmt.Sprintf("skills[%d]: sourceUrl %q is not an absolute URL", i, raw.SourceURL))
			continue
		}

		skills = append(skills, domain.Skill{
			Name:        name,
			Description: raw.Description,
			Category:    raw.Category,
			SourceURL:   raw.SourceURL,
			GitHubURL:   raw.GitHubURL,
		})
	}

	return skills, errs
}
