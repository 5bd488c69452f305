package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/prebid/gpp-codec/errortypes"
	"github.com/prebid/gpp-codec/logger"
	"github.com/prebid/gpp-codec/section"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Configuration specifies the static application config.
type Configuration struct {
	Sections Sections `mapstructure:"sections"`
	TCF      TCF      `mapstructure:"tcf"`
	Metrics  Metrics  `mapstructure:"metrics"`
	Cache    Cache    `mapstructure:"cache"`
	Batch    Batch    `mapstructure:"batch"`
	Log      Log      `mapstructure:"log"`
}

// Sections restricts which sections the encoder may write.
type Sections struct {
	// Enabled lists section names. An empty list enables every registered section.
	Enabled []string `mapstructure:"enabled"`
}

// IsEnabled reports whether the named section may be written.
func (s Sections) IsEnabled(name string) bool {
	if len(s.Enabled) == 0 {
		return true
	}
	for _, enabled := range s.Enabled {
		if enabled == name {
			return true
		}
	}
	return false
}

func (s Sections) validate(errs []error) []error {
	for _, name := range s.Enabled {
		if _, ok := section.ByName(name); !ok {
			errs = append(errs, &errortypes.InvalidConfig{
				Message: fmt.Sprintf("sections.enabled: %s is not a supported section", name),
			})
		}
	}
	return errs
}

// TCF holds the CMP identity written into TCF sections.
type TCF struct {
	CmpID      int `mapstructure:"cmp_id"`
	CmpVersion int `mapstructure:"cmp_version"`
	// StampTimestamps sets Created and LastUpdated from the clock whenever a TCF section
	// is re-encoded.
	StampTimestamps bool `mapstructure:"stamp_timestamps"`
}

const maxCmpValue = 1<<12 - 1

func (t TCF) validate(errs []error) []error {
	if t.CmpID < 0 || t.CmpID > maxCmpValue {
		errs = append(errs, &errortypes.InvalidConfig{
			Message: fmt.Sprintf("tcf.cmp_id must be in [0, %d]. Got %d", maxCmpValue, t.CmpID),
		})
	}
	if t.CmpVersion < 0 || t.CmpVersion > maxCmpValue {
		errs = append(errs, &errortypes.InvalidConfig{
			Message: fmt.Sprintf("tcf.cmp_version must be in [0, %d]. Got %d", maxCmpValue, t.CmpVersion),
		})
	}
	return errs
}

const (
	MetricsTypeNone       = "none"
	MetricsTypeGoMetrics  = "gometrics"
	MetricsTypePrometheus = "prometheus"
	// MetricsTypeAll feeds go-metrics and Prometheus side by side.
	MetricsTypeAll = "all"
)

type Metrics struct {
	Type       string            `mapstructure:"type"`
	Prometheus PrometheusMetrics `mapstructure:"prometheus"`
}

// PrometheusMetrics names the Prometheus collectors.
type PrometheusMetrics struct {
	Namespace string `mapstructure:"namespace"`
	Subsystem string `mapstructure:"subsystem"`
}

func (m Metrics) validate(errs []error) []error {
	switch m.Type {
	case MetricsTypeNone, MetricsTypeGoMetrics, MetricsTypePrometheus, MetricsTypeAll:
	default:
		errs = append(errs, &errortypes.InvalidConfig{
			Message: fmt.Sprintf("metrics.type must be one of %q. Got %q",
				[]string{MetricsTypeNone, MetricsTypeGoMetrics, MetricsTypePrometheus, MetricsTypeAll}, m.Type),
		})
	}
	return errs
}

const (
	CacheTypeNone      = "none"
	CacheTypeMemory    = "memory"
	CacheTypeFreecache = "freecache"

	// minFreecacheSize is the smallest size freecache accepts.
	minFreecacheSize = 512 * 1024
)

// Cache configures the decoded snapshot cache used by batch decoding.
type Cache struct {
	Type           string `mapstructure:"type"`
	TTLSeconds     int    `mapstructure:"ttl_seconds"`
	CleanupSeconds int    `mapstructure:"cleanup_seconds"`
	// SizeBytes bounds the freecache arena.
	SizeBytes int `mapstructure:"size_bytes"`
}

func (c Cache) validate(errs []error) []error {
	switch c.Type {
	case CacheTypeNone, CacheTypeMemory:
	case CacheTypeFreecache:
		if c.SizeBytes < minFreecacheSize {
			errs = append(errs, &errortypes.InvalidConfig{
				Message: fmt.Sprintf("cache.size_bytes must be at least %d for freecache. Got %d", minFreecacheSize, c.SizeBytes),
			})
		}
	default:
		errs = append(errs, &errortypes.InvalidConfig{
			Message: fmt.Sprintf("cache.type must be one of %q. Got %q",
				[]string{CacheTypeNone, CacheTypeMemory, CacheTypeFreecache}, c.Type),
		})
	}
	if c.TTLSeconds < 0 {
		errs = append(errs, errors.New("cache.ttl_seconds must not be negative"))
	}
	if c.CleanupSeconds < 0 {
		errs = append(errs, errors.New("cache.cleanup_seconds must not be negative"))
	}
	return errs
}

const (
	LogBackendGlog   = "glog"
	LogBackendLogrus = "logrus"
)

// Log selects the logger backend. Level only applies to logrus; glog takes its -v flag.
type Log struct {
	Backend string `mapstructure:"backend"`
	Level   string `mapstructure:"level"`
}

func (l Log) validate(errs []error) []error {
	switch l.Backend {
	case LogBackendGlog:
	case LogBackendLogrus:
		if _, err := logrus.ParseLevel(l.Level); err != nil {
			errs = append(errs, &errortypes.InvalidConfig{Message: fmt.Sprintf("log.level: %v", err)})
		}
	default:
		errs = append(errs, &errortypes.InvalidConfig{
			Message: fmt.Sprintf("log.backend must be %s or %s. Got %q", LogBackendGlog, LogBackendLogrus, l.Backend),
		})
	}
	return errs
}

type Batch struct {
	Workers int `mapstructure:"workers"`
}

func (b Batch) validate(errs []error) []error {
	if b.Workers < 1 {
		errs = append(errs, &errortypes.InvalidConfig{
			Message: fmt.Sprintf("batch.workers must be at least 1. Got %d", b.Workers),
		})
	}
	return errs
}

func (cfg *Configuration) validate() []error {
	var errs []error
	errs = cfg.Sections.validate(errs)
	errs = cfg.TCF.validate(errs)
	errs = cfg.Metrics.validate(errs)
	errs = cfg.Cache.validate(errs)
	errs = cfg.Batch.validate(errs)
	errs = cfg.Log.validate(errs)
	return errs
}

// New uses viper to get our server configurations.
func New(v *viper.Viper) (*Configuration, error) {
	var c Configuration
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("viper failed to unmarshal app config: %v", err)
	}
	c.Sections.Enabled = normalizeNames(c.Sections.Enabled)

	if errs := c.validate(); len(errs) > 0 {
		return &c, errortypes.NewAggregateErrors("validation errors", errs)
	}
	return &c, nil
}

// normalizeNames accepts both a YAML list and the space or comma separated form of an
// environment variable.
func normalizeNames(names []string) []string {
	var out []string
	for _, name := range names {
		for _, part := range strings.FieldsFunc(name, func(r rune) bool { return r == ',' || r == ' ' }) {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}

// SetupViper sets the defaults, the environment binding and, when filename is set, reads
// the configuration file.
func SetupViper(v *viper.Viper, filename string) {
	if filename != "" {
		v.SetConfigName(filename)
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/config")
	}

	v.SetDefault("sections.enabled", []string{})
	v.SetDefault("tcf.cmp_id", 0)
	v.SetDefault("tcf.cmp_version", 0)
	v.SetDefault("tcf.stamp_timestamps", false)
	v.SetDefault("metrics.type", MetricsTypeNone)
	v.SetDefault("metrics.prometheus.namespace", "")
	v.SetDefault("metrics.prometheus.subsystem", "gpp")
	v.SetDefault("cache.type", CacheTypeMemory)
	v.SetDefault("cache.ttl_seconds", 300)
	v.SetDefault("cache.cleanup_seconds", 600)
	v.SetDefault("cache.size_bytes", 32*1024*1024)
	v.SetDefault("batch.workers", 4)
	v.SetDefault("log.backend", LogBackendGlog)
	v.SetDefault("log.level", "info")

	v.SetEnvPrefix("GPP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if filename == "" {
		return
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			logger.Infof("no %s config file found, using defaults and environment", filename)
			return
		}
		logger.Warnf("failed to read config file %s: %v", filename, err)
	}
}
