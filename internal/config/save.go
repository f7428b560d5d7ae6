package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SaveAtomic validates and writes a config with a .bak of the previous copy,
// so an interrupted write never leaves a half-written file behind.
func SaveAtomic(path string, cfg Config) error {
	if res := Validate(cfg); !res.OK() {
		return fmt.Errorf("refusing to save invalid config: %s", strings.Join(res.Errors, "; "))
	}

	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	bak := path + ".bak"

	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}

	_ = os.Remove(bak)
	_ = os.Rename(path, bak)

	return os.Rename(tmp, path)
}
