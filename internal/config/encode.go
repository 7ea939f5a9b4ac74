package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/emberview/pkg/errors"
)

const header = `# emberview configuration
#
# Every key can be overridden by an EMBERVIEW_* environment variable
# (dots become underscores, e.g. EMBERVIEW_CACHE_REDIS_ADDR) or a flag.

`

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg *Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}

// WriteFile writes cfg to path with a short header. An existing file is
// only replaced when force is set.
func WriteFile(path string, cfg *Config, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.New(errors.ErrCodeInvalidPath, "%s already exists (use --force to overwrite)", path)
	}
	var buf bytes.Buffer
	buf.WriteString(header)
	if err := Encode(&buf, cfg); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", filepath.Dir(path))
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// DefaultPath returns the path `config init` writes to.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName+".toml"), nil
}
