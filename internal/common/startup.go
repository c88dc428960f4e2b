package common

import (
	"bytes"
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/armadaproject/sweeper/internal/common/config"
	"github.com/armadaproject/sweeper/internal/common/logging"
)

// EnvPrefix prefixes the environment variables overriding configuration keys, e.g. SWEEPER_SWEEPER_MAXBATCHSIZE.
const EnvPrefix = "SWEEPER"

// LoadConfig decodes the default configuration, then every file of overrideConfigs in order, then the environment
// into cfg. flags maps configuration keys to command line flags; a flag changed by the user takes precedence over
// every other source.
func LoadConfig(cfg interface{}, defaults []byte, overrideConfigs []string, flags map[string]*pflag.Flag) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return nil, errors.Wrap(err, "error reading default configuration")
	}

	for _, path := range overrideConfigs {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, errors.Wrapf(err, "error reading configuration file %s", path)
		}
		log.Debugf("merged configuration from %s", path)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	for key, flag := range flags {
		if flag == nil {
			return nil, errors.Errorf("no flag bound to configuration key %s", key)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	if err := v.Unmarshal(cfg, config.CustomHooks...); err != nil {
		return nil, errors.Wrap(err, "error decoding configuration")
	}
	return v, nil
}

// ConfigureCommandLineLogging sets up logrus for interactive use: plain messages on stdout.
func ConfigureCommandLineLogging() {
	log.SetFormatter(new(logging.CommandLineFormatter))
	log.SetOutput(os.Stdout)
}

// ConfigureLogLevel parses level and applies it to the standard logger.
func ConfigureLogLevel(level string) error {
	l, err := log.ParseLevel(level)
	if err != nil {
		return errors.WithStack(err)
	}
	log.SetLevel(l)
	return nil
}
