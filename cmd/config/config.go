package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/meverselabs/tokensale/common/rlog"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is the prefix of the environment variables overriding the config file
const EnvPrefix = "TOKENSALE_"

// ErrUnknownFormat is returned for a config file that is neither toml nor yaml
var ErrUnknownFormat = errors.New("unknown config format")

// Config is the configuration of the tokensale command
type Config struct {
	Store StoreConfig `toml:"store" yaml:"store"`
	Log   rlog.Config `toml:"log" yaml:"log"`
	Sale  SaleConfig  `toml:"sale" yaml:"sale"`
}

// StoreConfig selects the backend keeping the committed states
type StoreConfig struct {
	Driver    string `toml:"driver" yaml:"driver"`
	Path      string `toml:"path" yaml:"path"`
	CacheSize int    `toml:"cache_size" yaml:"cache_size"`
	Keep      uint32 `toml:"keep" yaml:"keep"`
}

// SaleConfig is the construction used by the init command
type SaleConfig struct {
	Deployer           string `toml:"deployer" yaml:"deployer"`
	Owner              string `toml:"owner" yaml:"owner"`
	CompanyWallet      string `toml:"company_wallet" yaml:"company_wallet"`
	TokenName          string `toml:"token_name" yaml:"token_name"`
	TokenSymbol        string `toml:"token_symbol" yaml:"token_symbol"`
	Rate               string `toml:"rate" yaml:"rate"`
	TokensSupply       string `toml:"tokens_supply" yaml:"tokens_supply"`
	InvestorCapPercent uint8  `toml:"investor_cap_percent" yaml:"investor_cap_percent"`
	ICODuration        uint64 `toml:"ico_duration" yaml:"ico_duration"`
	RefundBatchLimit   uint32 `toml:"refund_batch_limit" yaml:"refund_batch_limit"`
}

// Default returns the config used when no file is given
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Driver: "leveldb",
			Path:   "./data",
		},
		Log: rlog.Config{
			Level:    "info",
			Encoding: "console",
		},
		Sale: SaleConfig{
			TokenName:   "Sale Token",
			TokenSymbol: "SALE",
		},
	}
}

// Load reads the env files and the config file on top of the defaults, then applies the environment.
// An empty path skips the file. Missing env files are ignored.
func Load(path string, envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(errors.Cause(err)) {
			return nil, errors.Wrapf(err, "env file %v", f)
		}
	}
	cfg := Default()
	if len(path) > 0 {
		if err := LoadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := ApplyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile parse the config from the file of the path by its extension
func LoadFile(path string, v interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", "":
		return LoadReader(file, v)
	case ".yaml", ".yml":
		return LoadYAMLReader(file, v)
	default:
		return errors.Wrapf(ErrUnknownFormat, "file %v", path)
	}
}

// LoadString parse the toml config from the string
func LoadString(data string, v interface{}) error {
	return LoadReader(bytes.NewReader([]byte(data)), v)
}

// LoadReader parse the toml config from the reader
func LoadReader(r io.Reader, v interface{}) error {
	if _, err := toml.NewDecoder(r).Decode(v); err != nil {
		return errors.Wrap(err, "toml")
	}
	return nil
}

// LoadYAMLReader parse the yaml config from the reader
func LoadYAMLReader(r io.Reader, v interface{}) error {
	if err := yaml.NewDecoder(r).Decode(v); err != nil {
		return errors.Wrap(err, "yaml")
	}
	return nil
}

// ApplyEnv overrides the config with TOKENSALE_* variables found by lookup
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"STORE_DRIVER":        &cfg.Store.Driver,
		"STORE_PATH":          &cfg.Store.Path,
		"LOG_LEVEL":           &cfg.Log.Level,
		"LOG_ENCODING":        &cfg.Log.Encoding,
		"LOG_FILE":            &cfg.Log.File,
		"SALE_DEPLOYER":       &cfg.Sale.Deployer,
		"SALE_OWNER":          &cfg.Sale.Owner,
		"SALE_COMPANY_WALLET": &cfg.Sale.CompanyWallet,
		"SALE_TOKEN_NAME":     &cfg.Sale.TokenName,
		"SALE_TOKEN_SYMBOL":   &cfg.Sale.TokenSymbol,
		"SALE_RATE":           &cfg.Sale.Rate,
		"SALE_TOKENS_SUPPLY":  &cfg.Sale.TokensSupply,
	}
	for k, p := range strs {
		if v, has := lookup(EnvPrefix + k); has {
			*p = v
		}
	}

	if v, has := lookup(EnvPrefix + "STORE_CACHE_SIZE"); has {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "%vSTORE_CACHE_SIZE", EnvPrefix)
		}
		cfg.Store.CacheSize = n
	}
	uints := []struct {
		key  string
		bits int
		set  func(uint64)
	}{
		{"STORE_KEEP", 32, func(n uint64) { cfg.Store.Keep = uint32(n) }},
		{"SALE_INVESTOR_CAP_PERCENT", 8, func(n uint64) { cfg.Sale.InvestorCapPercent = uint8(n) }},
		{"SALE_ICO_DURATION", 64, func(n uint64) { cfg.Sale.ICODuration = n }},
		{"SALE_REFUND_BATCH_LIMIT", 32, func(n uint64) { cfg.Sale.RefundBatchLimit = uint32(n) }},
	}
	for _, u := range uints {
		v, has := lookup(EnvPrefix + u.key)
		if !has {
			continue
		}
		n, err := strconv.ParseUint(v, 10, u.bits)
		if err != nil {
			return errors.Wrapf(err, "%v%v", EnvPrefix, u.key)
		}
		u.set(n)
	}
	return nil
}
