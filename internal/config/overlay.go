package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// KeywordsFile is an optional side file holding just the keyword lists, so
// they can be edited without touching the rest of the config.
type KeywordsFile struct {
	JobKeywords     []string `yaml:"job_keywords"`
	ExcludeKeywords []string `yaml:"exclude_keywords"`
}

// OverlayKeywords replaces the keyword lists from keywordsPath when the file
// exists. A missing file is not an error.
func OverlayKeywords(cfg *Config, keywordsPath string) error {
	b, err := os.ReadFile(keywordsPath)
	if err != nil {
		return nil
	}

	var kf KeywordsFile
	if err := yaml.Unmarshal(b, &kf); err != nil {
		return err
	}

	if len(kf.JobKeywords) > 0 {
		cfg.JobKeywords = trimList(kf.JobKeywords)
	}
	if len(kf.ExcludeKeywords) > 0 {
		cfg.ExcludeKeywords = trimList(kf.ExcludeKeywords)
	}
	return nil
}
