package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/underrout/callisto-release/internal/foundation/errors"
)

const initHeader = `# Release configuration for callisto-release.
# Relative paths are resolved against the directory of this file.
# ${VAR} references are expanded from the environment and from .env / .env.local.
`

// Init writes an example configuration file reproducing the default Callisto release.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).
			WithContext("path", configPath).
			Build()
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal example config").Build()
	}

	if err := os.WriteFile(configPath, append([]byte(initHeader), data...), 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
