package config

import (
	"fmt"
	"strings"
	"time"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// Validate checks global coherence. Site-level problems are deliberately not
// errors here: each run calls Site.Validate, logs the failure once, and skips
// the site, so one broken entry cannot stop the others.
func Validate(cfg Config) Validation {
	var res Validation

	if len(cfg.JobKeywords) == 0 {
		res.addErr("job_keywords must not be empty")
	}
	if cfg.SimilarityThreshold < 0 || cfg.SimilarityThreshold > 1 {
		res.addErr("similarity_threshold must be in [0,1], got %v", cfg.SimilarityThreshold)
	}
	if len(cfg.Sites) == 0 && !cfg.Mail.Enabled {
		res.addErr("no sources configured: add sites or enable mail")
	}

	if cfg.Schedule.IntervalMinutes <= 0 {
		res.addErr("schedule.interval_minutes must be > 0")
	} else if cfg.Schedule.IntervalMinutes < 5 && len(cfg.Schedule.Times) == 0 {
		res.addWarn("schedule.interval_minutes is very low (%d) and may cause rate limits", cfg.Schedule.IntervalMinutes)
	}
	if _, err := time.LoadLocation(cfg.Schedule.Timezone); err != nil {
		res.addErr("schedule.timezone %q is not a valid IANA zone", cfg.Schedule.Timezone)
	}
	for _, t := range cfg.Schedule.Times {
		if !validClock(t) {
			res.addErr("schedule.times entry %q is not HH:MM", t)
		}
	}
	if (cfg.Schedule.Start == "") != (cfg.Schedule.End == "") {
		res.addErr("schedule.start and schedule.end must be set together")
	}
	if cfg.Schedule.Start != "" && !validClock(cfg.Schedule.Start) {
		res.addErr("schedule.start %q is not HH:MM", cfg.Schedule.Start)
	}
	if cfg.Schedule.End != "" && !validClock(cfg.Schedule.End) {
		res.addErr("schedule.end %q is not HH:MM", cfg.Schedule.End)
	}

	if cfg.Mail.Enabled {
		if strings.TrimSpace(cfg.Mail.IMAPHost) == "" {
			res.addErr("mail.imap_host is required when mail.enabled=true")
		}
		if strings.TrimSpace(cfg.Mail.Username) == "" {
			res.addErr("mail.username is required when mail.enabled=true")
		}
		if err := cfg.Mail.Selectors.Validate(); err != nil {
			res.addErr("mail.selectors: %v", err)
		}
	}

	if cfg.Notifications.File.Enabled && strings.TrimSpace(cfg.Notifications.File.Path) == "" {
		res.addErr("notifications.file.path is required when file notification is enabled")
	}
	if cfg.Notifications.Email.Enabled {
		if strings.TrimSpace(cfg.Notifications.Email.SMTPHost) == "" {
			res.addErr("notifications.email.smtp_host is required")
		}
		if strings.TrimSpace(cfg.Notifications.Email.From) == "" {
			res.addErr("notifications.email.from is required")
		}
		if strings.TrimSpace(cfg.Notifications.Email.To) == "" {
			res.addErr("notifications.email.to is required")
		}
	}

	seen := map[string]bool{}
	for _, s := range cfg.Sites {
		name := strings.ToLower(strings.TrimSpace(s.Name))
		if name == "" {
			continue
		}
		if seen[name] {
			res.addErr("duplicate site name %q", s.Name)
		}
		seen[name] = true
	}

	exSet := map[string]bool{}
	for _, ex := range cfg.ExcludeKeywords {
		exSet[strings.ToLower(ex)] = true
	}
	for _, kw := range cfg.JobKeywords {
		if exSet[strings.ToLower(kw)] {
			res.addWarn("keyword appears in both job_keywords and exclude_keywords: %q", kw)
		}
	}

	return res
}

// Validate checks one site's structural coherence. Callers report the error
// once and skip the site for the run.
func (s Site) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("site name is required")
	}
	if strings.TrimSpace(s.URLTemplate) == "" {
		return fmt.Errorf("site %q: url_template is required", s.Name)
	}
	if !strings.Contains(s.URLTemplate, "{keyword}") {
		return fmt.Errorf("site %q: url_template must contain a {keyword} placeholder", s.Name)
	}
	if s.Method != "http" && s.Method != "browser" {
		return fmt.Errorf("site %q: method must be 'http' or 'browser'", s.Name)
	}
	switch s.Pagination.Type {
	case "", "param", "infinite_scroll":
	default:
		return fmt.Errorf("site %q: pagination.type must be 'param' or 'infinite_scroll'", s.Name)
	}
	if s.Pagination.Type == "param" && strings.TrimSpace(s.Pagination.Param) == "" {
		return fmt.Errorf("site %q: pagination.param is required for param pagination", s.Name)
	}
	if err := s.Selectors.Validate(); err != nil {
		return fmt.Errorf("site %q: %w", s.Name, err)
	}
	return nil
}

func validClock(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}
