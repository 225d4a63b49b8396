package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"zomesigner/internal/keystore"
	"zomesigner/internal/seedbundle"
	"zomesigner/internal/util/log"
)

// Environment overrides.
const (
	EnvKeystoreURL = "ZOMESIGNER_KEYSTORE_URL"
	EnvLogLevel    = "ZOMESIGNER_LOG_LEVEL"
)

// Config holds runtime wiring options. Passphrases never appear here.
type Config struct {
	// KeystoreURL is the keystore address, e.g. unix:///run/keystore.sock.
	KeystoreURL string `yaml:"keystore_url"`
	// DialTimeout bounds the socket dial; zero means none.
	DialTimeout time.Duration `yaml:"dial_timeout"`
	LogLevel    string        `yaml:"log_level"`
	LogFormat   string        `yaml:"log_format"`
	// MetricsAddr is where the development keystore serves /metrics.
	MetricsAddr string    `yaml:"metrics_addr"`
	BundleKDF   KDFConfig `yaml:"bundle_kdf"`
}

// KDFConfig sets the argon2id cost of bundles created by lock-seed.
type KDFConfig struct {
	MemLimitKiB uint32 `yaml:"mem_limit_kib"`
	OpsLimit    uint32 `yaml:"ops_limit"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	kdf := seedbundle.DefaultOptions()
	return Config{
		KeystoreURL: "unix://" + filepath.Join(DefaultHome(), "keystore.sock"),
		DialTimeout: 5 * time.Second,
		LogLevel:    log.InfoLevel.String(),
		LogFormat:   "text",
		MetricsAddr: "127.0.0.1:9464",
		BundleKDF: KDFConfig{
			MemLimitKiB: kdf.MemLimitKiB,
			OpsLimit:    kdf.OpsLimit,
		},
	}
}

// DefaultHome returns $HOME/.zomesigner, or .zomesigner if HOME is unknown.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".zomesigner"
	}
	return filepath.Join(home, ".zomesigner")
}

// DefaultConfigPath returns the config file read when none is given.
func DefaultConfigPath() string { return filepath.Join(DefaultHome(), "config.yaml") }

// LoadConfig reads path over DefaultConfig and applies environment
// overrides. An empty path reads DefaultConfigPath, which may be absent.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "config: parse %s", path)
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return Config{}, errors.Wrap(err, "config: read")
	}

	if v := os.Getenv(EnvKeystoreURL); v != "" {
		cfg.KeystoreURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	return cfg, cfg.Validate()
}

// Validate checks the keystore address and the KDF bounds.
func (c Config) Validate() error {
	if _, err := keystore.ParseAddress(c.KeystoreURL); err != nil {
		return errors.Wrap(err, "config: keystore_url")
	}
	if c.DialTimeout < 0 {
		return errors.New("config: dial_timeout is negative")
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return errors.Errorf("config: unknown log_format %q", c.LogFormat)
	}
	if err := c.BundleOptions().Validate(); err != nil {
		return errors.Wrap(err, "config: bundle_kdf")
	}
	return nil
}

// BundleOptions returns the seed bundle options for new bundles.
func (c Config) BundleOptions() seedbundle.Options {
	return seedbundle.Options{
		MemLimitKiB: c.BundleKDF.MemLimitKiB,
		OpsLimit:    c.BundleKDF.OpsLimit,
	}
}
