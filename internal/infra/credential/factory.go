package credential

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/mitchellh/mapstructure"
	zlog "github.com/rs/zerolog/log"
)

// Config selects and configures a store implementation.
type Config struct {
	Type     string         `yaml:"type" default:"file" validate:"omitempty,oneof=file keyring"`
	Settings map[string]any `yaml:"settings"`
}

// FileSettings configures the file-backed store.
type FileSettings struct {
	Path string `mapstructure:"path"`
}

// KeyringSettings configures the keyring-backed store.
type KeyringSettings struct {
	Service string `mapstructure:"service" default:"ytlength"`
	User    string `mapstructure:"user" default:"youtube-api-key"`
}

// NewStoreFromConfig creates a Store from configuration.
func NewStoreFromConfig(cfg Config) (Store, error) {
	storeType := cfg.Type
	if storeType == "" {
		storeType = "file"
	}

	switch storeType {
	case "file":
		var settings FileSettings
		if err := decodeSettings(cfg.Settings, &settings); err != nil {
			return nil, errors.Wrap(err, "file store settings")
		}
		if settings.Path == "" {
			settings.Path = defaultKeyPath()
		}
		zlog.Debug().Msgf("using file credential store: path=%s", settings.Path)
		return NewFileStore(settings.Path), nil

	case "keyring":
		var settings KeyringSettings
		if err := decodeSettings(cfg.Settings, &settings); err != nil {
			return nil, errors.Wrap(err, "keyring store settings")
		}
		zlog.Debug().Msgf("using keyring credential store: service=%s", settings.Service)
		return NewKeyringStore(settings.Service, settings.User), nil

	default:
		return nil, errors.Newf("unsupported credential store type: %s", storeType)
	}
}

// decodeSettings decodes a settings map into a typed struct and applies
// struct-tag defaults.
func decodeSettings(settings map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "mapstructure",
	})
	if err != nil {
		return errors.Wrap(err, "failed to create decoder")
	}
	if err := decoder.Decode(settings); err != nil {
		return errors.Wrap(err, "failed to decode settings")
	}
	if err := defaults.Set(out); err != nil {
		return errors.Wrap(err, "failed to set defaults")
	}
	return nil
}

// defaultKeyPath places the key file under the user config directory,
// falling back to the working directory when none is available.
func defaultKeyPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".ytlength_api_key"
	}
	return filepath.Join(dir, "ytlength", "api_key")
}
