// Package config owns the bridge's persisted configuration record: the
// commissioning parameters for the local accessory, the LIFX API credential,
// and the selected remote light. The record is a JSON file loaded through
// viper so values merge over generated defaults and old records keep working
// when new fields are added.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Commissioning test-vendor defaults, used until real IDs are assigned.
const (
	DefaultVendorID  = 0xFFF1
	DefaultProductID = 0x8001
)

// Record is the persisted configuration object.
type Record struct {
	Pincode        int    `json:"pincode" mapstructure:"pincode"`
	Discriminator  int    `json:"discriminator" mapstructure:"discriminator"`
	VendorID       int    `json:"vendorId" mapstructure:"vendorid"`
	ProductID      int    `json:"productId" mapstructure:"productid"`
	UniqueID       string `json:"uniqueId" mapstructure:"uniqueid"`
	LIFXAPIKey     string `json:"lifxApiKey" mapstructure:"lifxapikey"`
	HomekitLightID string `json:"homekitLightId" mapstructure:"homekitlightid"`
}

// ServerConfig holds the admin HTTP surface settings.
type ServerConfig struct {
	Listen             string `json:"listen" mapstructure:"listen"`
	RateLimitPerMinute int    `json:"rateLimitPerMinute" mapstructure:"ratelimitperminute"`
}

// SyncConfig holds the synchronization engine settings.
type SyncConfig struct {
	PollIntervalSeconds int `json:"pollIntervalSeconds" mapstructure:"pollintervalseconds"`
}

// LoggingConfig holds the logging settings.
type LoggingConfig struct {
	Level  string `json:"level" mapstructure:"level"`
	Format string `json:"format" mapstructure:"format"`
}

// Config is the loaded configuration plus the machinery to persist it.
type Config struct {
	Record  Record        `json:"-"`
	Server  ServerConfig  `json:"server"`
	Sync    SyncConfig    `json:"sync"`
	Logging LoggingConfig `json:"logging"`

	mu     sync.Mutex
	path   string
	v      *viper.Viper
	logger *slog.Logger
}

// DefaultPath returns the default config file location, honoring XDG_CONFIG_HOME.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "lifxbridge", "config.json")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "lifxbridge", "config.json")
}

// Load reads the config file at path, merging it over generated defaults.
// An absent or unreadable file produces a fresh record which is saved
// immediately, so first run leaves a valid file behind.
func Load(path string, logger *slog.Logger) (*Config, error) {
	if logger == nil {
		logger = slog.Default()
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	defaults := generateRecord()
	v.SetDefault("pincode", defaults.Pincode)
	v.SetDefault("discriminator", defaults.Discriminator)
	v.SetDefault("vendorid", defaults.VendorID)
	v.SetDefault("productid", defaults.ProductID)
	v.SetDefault("uniqueid", defaults.UniqueID)
	v.SetDefault("lifxapikey", "")
	v.SetDefault("homekitlightid", "")
	v.SetDefault("server.listen", ":8095")
	v.SetDefault("server.ratelimitperminute", 120)
	v.SetDefault("sync.pollintervalseconds", 10)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetEnvPrefix("LIFXBRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	fresh := false
	if err := v.ReadInConfig(); err != nil {
		// Absent or unreadable file: run on generated defaults and write them out.
		logger.Warn("config file missing or unreadable, generating defaults", "path", path, "error", err)
		fresh = true
	}

	cfg := &Config{path: path, v: v, logger: logger}
	if err := cfg.refresh(); err != nil {
		return nil, err
	}

	// A readable file missing any generated identity field must be healed on
	// the spot: the defaults filling those fields are drawn fresh per process,
	// so an unsaved record would change pairing identity on the next start.
	needSave := fresh || cfg.Record.Pincode == 0 || cfg.Record.UniqueID == ""
	if !needSave {
		for _, key := range []string{"pincode", "discriminator", "vendorid", "productid", "uniqueid"} {
			if !v.InConfig(key) {
				needSave = true
				break
			}
		}
	}
	if needSave {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving generated config: %w", err)
		}
	}
	return cfg, nil
}

// refresh re-reads the typed fields from viper.
func (c *Config) refresh() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.v.Unmarshal(&struct {
		*Record `mapstructure:",squash"`
		Server  *ServerConfig  `mapstructure:"server"`
		Sync    *SyncConfig    `mapstructure:"sync"`
		Logging *LoggingConfig `mapstructure:"logging"`
	}{&c.Record, &c.Server, &c.Sync, &c.Logging}); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	return nil
}

// Save writes the record to disk. Keys are written in their documented
// camelCase form; viper reads them back case-insensitively.
func (c *Config) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	out := struct {
		Record
		Server  ServerConfig  `json:"server"`
		Sync    SyncConfig    `json:"sync"`
		Logging LoggingConfig `json:"logging"`
	}{c.Record, c.Server, c.Sync, c.Logging}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(c.path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	c.logger.Debug("configuration saved", "path", c.path)
	return nil
}

// SetLIFXAPIKey stores the API credential and persists the record.
func (c *Config) SetLIFXAPIKey(key string) error {
	c.mu.Lock()
	c.Record.LIFXAPIKey = key
	c.mu.Unlock()
	return c.Save()
}

// SetHomekitLightID stores the selected remote light and persists the record.
func (c *Config) SetHomekitLightID(id string) error {
	c.mu.Lock()
	c.Record.HomekitLightID = id
	c.mu.Unlock()
	return c.Save()
}

// Snapshot returns a copy of the current record.
func (c *Config) Snapshot() Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Record
}

// Configured reports whether both the credential and a light selection exist.
func (c *Config) Configured() bool {
	r := c.Snapshot()
	return r.LIFXAPIKey != "" && r.HomekitLightID != ""
}

// Watch reloads the record when the file changes out-of-band and invokes
// onChange after each successful reload.
func (c *Config) Watch(onChange func()) {
	c.v.OnConfigChange(func(e fsnotify.Event) {
		c.logger.Info("config file changed, reloading", "path", e.Name, "op", e.Op.String())
		if err := c.refresh(); err != nil {
			c.logger.Error("failed to reload config", "error", err)
			return
		}
		if onChange != nil {
			onChange()
		}
	})
	c.v.WatchConfig()
}

// generateRecord builds first-run defaults: a random valid passcode, a random
// 12-bit discriminator, and a timestamp-derived unique instance id.
func generateRecord() Record {
	return Record{
		Pincode:       generatePasscode(),
		Discriminator: rand.Intn(1 << 12),
		VendorID:      DefaultVendorID,
		ProductID:     DefaultProductID,
		UniqueID:      strconv.FormatInt(time.Now().UnixMilli(), 10),
	}
}

// invalidPasscodes are the commissioning passcodes the pairing spec forbids.
var invalidPasscodes = map[int]struct{}{
	0: {}, 11111111: {}, 22222222: {}, 33333333: {}, 44444444: {},
	55555555: {}, 66666666: {}, 77777777: {}, 88888888: {}, 99999999: {},
	12345678: {}, 87654321: {},
}

func generatePasscode() int {
	for {
		code := rand.Intn(99999998) + 1
		if _, bad := invalidPasscodes[code]; !bad {
			return code
		}
	}
}
