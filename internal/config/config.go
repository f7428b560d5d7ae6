// Package config loads and validates the YAML configuration. Sites are pure
// data: adding a new job board means adding a sites entry, never code.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"recruitwatch/internal/extract"
)

const (
	defaultThreshold       = 0.3
	defaultIntervalMinutes = 60
	defaultTimezone        = "Asia/Seoul"
	defaultUserAgent       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

type Config struct {
	DataDir string `yaml:"data_dir"`

	JobKeywords         []string `yaml:"job_keywords"`
	ExcludeKeywords     []string `yaml:"exclude_keywords"`
	SimilarityThreshold float64  `yaml:"similarity_threshold"`

	Sites []Site `yaml:"sites"`

	Schedule      Schedule      `yaml:"schedule"`
	Fetch         Fetch         `yaml:"fetch"`
	Mail          Mail          `yaml:"mail"`
	Notifications Notifications `yaml:"notifications"`
	Server        Server        `yaml:"server"`
	Logging       Logging       `yaml:"logging"`
}

// Site describes one job board. Method picks the fetch collaborator: plain
// HTTP or a rendered-DOM browser page.
type Site struct {
	Name        string            `yaml:"name"`
	Method      string            `yaml:"method"` // http | browser
	BaseURL     string            `yaml:"base_url"`
	URLTemplate string            `yaml:"url_template"`
	Pagination  Pagination        `yaml:"pagination"`
	Selectors   extract.Selectors `yaml:"selectors"`
}

type Pagination struct {
	Type     string `yaml:"type"` // param | infinite_scroll
	Param    string `yaml:"param"`
	MaxPages int    `yaml:"max_pages"`
}

type Schedule struct {
	IntervalMinutes int      `yaml:"interval_minutes"`
	Times           []string `yaml:"times"` // "HH:MM" entries; overrides the interval
	Start           string   `yaml:"start"` // daily active window, "HH:MM"
	End             string   `yaml:"end"`
	Timezone        string   `yaml:"timezone"`
}

func (s Schedule) Interval() time.Duration {
	return time.Duration(s.IntervalMinutes) * time.Minute
}

type Fetch struct {
	UserAgent         string  `yaml:"user_agent"`
	TimeoutSeconds    int     `yaml:"timeout_seconds"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
	Browser           Browser `yaml:"browser"`
}

func (f Fetch) Timeout() time.Duration {
	return time.Duration(f.TimeoutSeconds) * time.Second
}

type Browser struct {
	Bin                string `yaml:"bin"`
	PageTimeoutSeconds int    `yaml:"page_timeout_seconds"`
	ScrollRounds       int    `yaml:"scroll_rounds"`
	ScrollDelayMS      int    `yaml:"scroll_delay_ms"`
}

func (b Browser) PageTimeout() time.Duration {
	return time.Duration(b.PageTimeoutSeconds) * time.Second
}

func (b Browser) ScrollDelay() time.Duration {
	return time.Duration(b.ScrollDelayMS) * time.Millisecond
}

// Mail reads job-alert emails over IMAP and runs their HTML bodies through
// the same extraction engine as a site. The password lives in the OS keyring.
type Mail struct {
	Enabled         bool   `yaml:"enabled"`
	IMAPHost        string `yaml:"imap_host"`
	IMAPPort        int    `yaml:"imap_port"`
	Username        string `yaml:"username"`
	Mailbox         string `yaml:"mailbox"`
	FromContains    string `yaml:"from_contains"`
	SubjectContains string `yaml:"subject_contains"`
	MaxMessages     int    `yaml:"max_messages"`
	MarkSeen        bool   `yaml:"mark_seen"`

	BaseURL   string            `yaml:"base_url"`
	Selectors extract.Selectors `yaml:"selectors"`
}

type Notifications struct {
	Console ConsoleNotify `yaml:"console"`
	File    FileNotify    `yaml:"file"`
	Email   EmailNotify   `yaml:"email"`
}

type ConsoleNotify struct {
	Enabled bool `yaml:"enabled"`
}

type FileNotify struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// EmailNotify delivers over SMTP; the password comes from the keyring, keyed
// by the from address.
type EmailNotify struct {
	Enabled  bool   `yaml:"enabled"`
	SMTPHost string `yaml:"smtp_host"`
	SMTPPort int    `yaml:"smtp_port"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
}

type Server struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type Logging struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// Load reads, defaults and validates a config file. Per-site structural
// problems are not load errors; each run reports and skips broken sites so
// one bad entry cannot take the whole watcher down.
func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg = Normalize(cfg)
	if res := Validate(cfg); !res.OK() {
		return cfg, fmt.Errorf("invalid config: %s", strings.Join(res.Errors, "; "))
	}
	return cfg, nil
}

// Normalize fills defaults and cleans up keyword lists.
func Normalize(cfg Config) Config {
	out := cfg

	out.JobKeywords = trimList(out.JobKeywords)
	out.ExcludeKeywords = trimList(out.ExcludeKeywords)

	if out.DataDir == "" {
		out.DataDir = "data"
	}
	if out.SimilarityThreshold == 0 {
		out.SimilarityThreshold = defaultThreshold
	}
	if out.Schedule.IntervalMinutes == 0 {
		out.Schedule.IntervalMinutes = defaultIntervalMinutes
	}
	if out.Schedule.Timezone == "" {
		out.Schedule.Timezone = defaultTimezone
	}
	if out.Fetch.UserAgent == "" {
		out.Fetch.UserAgent = defaultUserAgent
	}
	if out.Fetch.TimeoutSeconds == 0 {
		out.Fetch.TimeoutSeconds = 10
	}
	if out.Fetch.RequestsPerSecond == 0 {
		out.Fetch.RequestsPerSecond = 1
	}
	if out.Fetch.Burst == 0 {
		out.Fetch.Burst = 2
	}
	if out.Fetch.Browser.PageTimeoutSeconds == 0 {
		out.Fetch.Browser.PageTimeoutSeconds = 30
	}
	if out.Fetch.Browser.ScrollRounds == 0 {
		out.Fetch.Browser.ScrollRounds = 3
	}
	if out.Fetch.Browser.ScrollDelayMS == 0 {
		out.Fetch.Browser.ScrollDelayMS = 2000
	}
	if out.Mail.Mailbox == "" {
		out.Mail.Mailbox = "INBOX"
	}
	if out.Mail.IMAPPort == 0 {
		out.Mail.IMAPPort = 993
	}
	if out.Mail.MaxMessages == 0 {
		out.Mail.MaxMessages = 50
	}
	if out.Server.Addr == "" {
		out.Server.Addr = "127.0.0.1:38470"
	}
	if out.Logging.Level == "" {
		out.Logging.Level = "info"
	}
	for i := range out.Sites {
		if out.Sites[i].Method == "" {
			out.Sites[i].Method = "http"
		}
		if out.Sites[i].Pagination.MaxPages == 0 {
			out.Sites[i].Pagination.MaxPages = 1
		}
	}
	return out
}

func trimList(xs []string) []string {
	seen := map[string]bool{}
	var ys []string
	for _, x := range xs {
		x = strings.TrimSpace(x)
		if x == "" {
			continue
		}
		key := strings.ToLower(x)
		if seen[key] {
			continue
		}
		seen[key] = true
		ys = append(ys, x)
	}
	return ys
}
