package printer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultPort is the JetDirect raw printing port.
	DefaultPort = 9100

	// DefaultLPDPort is the line printer daemon port.
	DefaultLPDPort = 515

	// DefaultTimeout bounds connect, send and status reads.
	DefaultTimeout = 30 * time.Second
)

// Config carries the connection parameters. The values are fixed for the
// lifetime of a printer built from them.
type Config struct {
	Host      string
	Port      int
	Timeout   time.Duration
	AutoClose bool
	CodePage  string
}

// DefaultConfig returns the stock configuration for host: JetDirect port,
// 30 second timeout, automatic close and cp866 text.
func DefaultConfig(host string) Config {
	return Config{
		Host:      host,
		Port:      DefaultPort,
		Timeout:   DefaultTimeout,
		AutoClose: true,
		CodePage:  DefaultCodePage,
	}
}

// fillDefaults replaces zero values with the stock ones. AutoClose is
// left alone, false is a valid choice there.
func (c *Config) fillDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.CodePage == "" {
		c.CodePage = DefaultCodePage
	}
}

// LoadConfig reads the printer section of a config file, with environment
// overrides under the ESCPOS prefix (ESCPOS_PRINTER_HOST and friends).
// With an empty path the file config.yaml is searched in the working
// directory and its absence is tolerated; an explicit path must exist.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("printer.host", "")
	v.SetDefault("printer.port", DefaultPort)
	v.SetDefault("printer.timeout", DefaultTimeout)
	v.SetDefault("printer.autoclose", true)
	v.SetDefault("printer.codepage", DefaultCodePage)

	v.SetEnvPrefix("ESCPOS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		Host:      v.GetString("printer.host"),
		Port:      v.GetInt("printer.port"),
		Timeout:   v.GetDuration("printer.timeout"),
		AutoClose: v.GetBool("printer.autoclose"),
		CodePage:  v.GetString("printer.codepage"),
	}
	cfg.fillDefaults()
	return cfg, nil
}
