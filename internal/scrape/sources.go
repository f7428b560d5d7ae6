package scrape

import (
	"go.uber.org/zap"

	"recruitwatch/internal/config"
	"recruitwatch/internal/fetch"
	"recruitwatch/internal/scrape/mail"
)

// BuildSources turns the config into runnable sources. A site that fails
// validation is logged and skipped; the others still run.
func BuildSources(cfg config.Config, client *fetch.Client, browser *fetch.Browser, mailPassword string, log *zap.Logger) []Source {
	var out []Source
	for _, site := range cfg.Sites {
		if err := site.Validate(); err != nil {
			log.Warn("skipping misconfigured site", zap.Error(err))
			continue
		}
		if site.Method == "browser" && browser == nil {
			log.Warn("skipping browser site, no browser available", zap.String("site", site.Name))
			continue
		}
		out = append(out, NewSiteSource(site, cfg.JobKeywords, client, browser, cfg.Fetch.Browser.ScrollRounds, log))
	}

	if cfg.Mail.Enabled {
		out = append(out, mail.NewSource(cfg.Mail, mailPassword, log))
	}
	return out
}
