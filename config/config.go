package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "20MB"
	defaultBlobCacheControl   = "max-age=3600"
	defaultDraftDir           = "./data/drafts"
	defaultDraftPrefix        = "cafeadmin:draft:"
	defaultSessionTTL         = 12 * time.Hour
	defaultPostalEndpoint     = "https://zipcloud.ibsnet.co.jp/api/search"
	defaultPostalTimeout      = 5 * time.Second
	defaultMaxImageBytes      = 10 << 20
	defaultShutdownTimeout    = 10 * time.Second
)

// Store drivers.
const (
	StoreDriverMemory   = "memory"
	StoreDriverSQLite   = "sqlite"
	StoreDriverPostgres = "postgres"
)

// Draft backends.
const (
	DraftBackendFile  = "file"
	DraftBackendRedis = "redis"
)

type Config struct {
	Env struct {
		Env             string        `json:"env" yaml:"env"`
		ServiceName     string        `json:"serviceName" yaml:"serviceName"`
		Debug           bool          `json:"debug" yaml:"debug"`
		Log             Log           `json:"log" yaml:"log"`
		ShutdownTimeout time.Duration `json:"shutdownTimeout" yaml:"shutdownTimeout"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	// Store selects the record store implementation
	Store StoreConfig `json:"store" yaml:"store"`

	// Blob configures where image payloads are uploaded
	Blob BlobConfig `json:"blob" yaml:"blob"`

	// Draft configures where in-progress wizard drafts are kept
	Draft DraftConfig `json:"draft" yaml:"draft"`

	Admin AdminConfig `json:"admin" yaml:"admin"`

	Postal PostalConfig `json:"postal" yaml:"postal"`

	Upload struct {
		MaxImageBytes int64 `json:"maxImageBytes" yaml:"maxImageBytes"`
	} `json:"upload" yaml:"upload"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// StoreConfig defines the record store backend
type StoreConfig struct {
	// Driver is one of "memory", "sqlite" or "postgres"
	Driver      string `json:"driver" yaml:"driver"`
	DSN         string `json:"dsn" yaml:"dsn"`
	AutoMigrate bool   `json:"autoMigrate" yaml:"autoMigrate"`

	MaxOpenConns    int           `json:"maxOpenConns" yaml:"maxOpenConns"`
	MaxIdleConns    int           `json:"maxIdleConns" yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `json:"connMaxLifetime" yaml:"connMaxLifetime"`
}

// BlobConfig defines the blob bucket used for image uploads
type BlobConfig struct {
	// BucketURL is a gocloud.dev URL, e.g. file:///var/cafeimages, mem://, s3://cafeimages, gs://cafeimages
	BucketURL string `json:"bucketUrl" yaml:"bucketUrl"`

	// PublicBaseURL prefixes stored paths to build public preview URLs
	PublicBaseURL string `json:"publicBaseUrl" yaml:"publicBaseUrl"`

	CacheControl string `json:"cacheControl" yaml:"cacheControl"`

	// Upsert allows an upload to replace an existing object at the same path
	Upsert bool `json:"upsert" yaml:"upsert"`
}

// DraftConfig defines the draft persistence backend
type DraftConfig struct {
	// Backend is one of "file" or "redis"
	Backend string `json:"backend" yaml:"backend"`
	Dir     string `json:"dir" yaml:"dir"`
	Redis   struct {
		Addr     string        `json:"addr" yaml:"addr"`
		Password string        `json:"password" yaml:"password"`
		DB       int           `json:"db" yaml:"db"`
		Prefix   string        `json:"prefix" yaml:"prefix"`
		TTL      time.Duration `json:"ttl" yaml:"ttl"`
	} `json:"redis" yaml:"redis"`
}

// AdminConfig defines the shared admin credential and session signing
type AdminConfig struct {
	// ID is the admin login id; an empty value disables authentication
	ID           string        `json:"id" yaml:"id"`
	PasswordHash string        `json:"passwordHash" yaml:"passwordHash"`
	SessionKey   string        `json:"sessionKey" yaml:"sessionKey"`
	SessionTTL   time.Duration `json:"sessionTtl" yaml:"sessionTtl"`
}

// PostalConfig defines the postal code lookup service
type PostalConfig struct {
	Endpoint string        `json:"endpoint" yaml:"endpoint"`
	Timeout  time.Duration `json:"timeout" yaml:"timeout"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			searchPaths = append(searchPaths, filepath.Join(pwd, path))
		}
	}

	var configFile string
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate

			break
		}
	}

	if configFile == "" {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// STORE_AUTOMIGRATE -> store.autoMigrate
			return canonicalizeEnvKey(k, existingConfigMap), v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) applyDefaults() error {
	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}
	if cfg.Env.ShutdownTimeout <= 0 {
		cfg.Env.ShutdownTimeout = defaultShutdownTimeout
	}

	switch cfg.Store.Driver {
	case "":
		cfg.Store.Driver = StoreDriverMemory
	case StoreDriverMemory, StoreDriverSQLite, StoreDriverPostgres:
	default:
		return errors.Errorf("unknown store driver: %s", cfg.Store.Driver)
	}

	if cfg.Blob.BucketURL == "" {
		cfg.Blob.BucketURL = "mem://"
	}
	if cfg.Blob.CacheControl == "" {
		cfg.Blob.CacheControl = defaultBlobCacheControl
	}

	switch cfg.Draft.Backend {
	case "":
		cfg.Draft.Backend = DraftBackendFile
	case DraftBackendFile, DraftBackendRedis:
	default:
		return errors.Errorf("unknown draft backend: %s", cfg.Draft.Backend)
	}
	if cfg.Draft.Dir == "" {
		cfg.Draft.Dir = defaultDraftDir
	}
	if cfg.Draft.Redis.Prefix == "" {
		cfg.Draft.Redis.Prefix = defaultDraftPrefix
	}

	if cfg.Admin.ID != "" && (cfg.Admin.PasswordHash == "" || cfg.Admin.SessionKey == "") {
		return errors.New("admin.passwordHash and admin.sessionKey must be set when admin.id is set")
	}
	if cfg.Admin.SessionTTL <= 0 {
		cfg.Admin.SessionTTL = defaultSessionTTL
	}

	if cfg.Postal.Endpoint == "" {
		cfg.Postal.Endpoint = defaultPostalEndpoint
	}
	if cfg.Postal.Timeout <= 0 {
		cfg.Postal.Timeout = defaultPostalTimeout
	}

	if cfg.Upload.MaxImageBytes <= 0 {
		cfg.Upload.MaxImageBytes = defaultMaxImageBytes
	}

	return nil
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}
