package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jeetu-ai/jeetu/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// DefaultSweepInterval is how often the reminder sweep runs when the policy
// file does not say
const DefaultSweepInterval = 5 * time.Minute

// Policy holds the path of the policy file
type Policy struct {
	path string
}

func (x *Policy) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "policy",
			Aliases:     []string{"p"},
			Usage:       "Path to a policy TOML file (default: built-in policy)",
			Destination: &x.path,
			Sources:     cli.EnvVars("JEETU_POLICY"),
		},
	}
}

func (x Policy) LogValue() slog.Value {
	return slog.GroupValue(slog.String("path", x.path))
}

// Configure loads the policy file. Without a path the built-in policy is used.
func (x *Policy) Configure() (*PolicyConfig, error) {
	if x.path == "" {
		return DefaultPolicyConfig(), nil
	}
	return LoadPolicy(x.path)
}

// PolicyConfig is the decoded policy file
type PolicyConfig struct {
	AssistantName string   `toml:"assistant_name"`
	Keywords      []string `toml:"keywords"`
	HistorySize   *int     `toml:"history_size"`

	Fallback FallbackConfig `toml:"fallback"`
	Calendar CalendarConfig `toml:"calendar"`
	LLM      LLMConfig      `toml:"llm"`
	Reminder ReminderConfig `toml:"reminder"`
}

type FallbackConfig struct {
	CutoffHour   *int `toml:"cutoff_hour"`
	TodayHour    *int `toml:"today_hour"`
	TomorrowHour *int `toml:"tomorrow_hour"`
}

type CalendarConfig struct {
	Lead string `toml:"lead"`
}

type LLMConfig struct {
	Timeout         string  `toml:"timeout"`
	BreakerFailures *uint32 `toml:"breaker_failures"`
	BreakerCooldown string  `toml:"breaker_cooldown"`
}

type ReminderConfig struct {
	Window        string `toml:"window"`
	SweepInterval string `toml:"sweep_interval"`
}

// DefaultPolicyConfig returns an empty policy, which resolves to the defaults
func DefaultPolicyConfig() *PolicyConfig {
	return &PolicyConfig{}
}

// LoadPolicy reads and validates a policy TOML file
func LoadPolicy(path string) (*PolicyConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrConfigNotFound, "policy file not found", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read policy file", goerr.V(ConfigPathKey, path))
	}

	var cfg PolicyConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse policy TOML",
			goerr.V(ConfigPathKey, path),
			goerr.V("error", err.Error()))
	}

	if _, err := cfg.Policy(); err != nil {
		return nil, goerr.Wrap(err, "policy validation failed", goerr.V(ConfigPathKey, path))
	}
	if _, err := cfg.SweepInterval(); err != nil {
		return nil, goerr.Wrap(err, "policy validation failed", goerr.V(ConfigPathKey, path))
	}

	return &cfg, nil
}

// Policy merges the file over usecase.DefaultPolicy and validates the result
func (c *PolicyConfig) Policy() (usecase.Policy, error) {
	p := usecase.DefaultPolicy()

	if name := strings.TrimSpace(c.AssistantName); name != "" {
		p.AssistantName = name
	}
	if len(c.Keywords) > 0 {
		keywords := make([]string, 0, len(c.Keywords))
		for _, kw := range c.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				return p, goerr.Wrap(ErrInvalidPolicy, "empty keyword")
			}
			keywords = append(keywords, kw)
		}
		p.Keywords = keywords
	}
	if c.HistorySize != nil {
		if *c.HistorySize < 1 {
			return p, goerr.Wrap(ErrInvalidPolicy, "history_size must be positive", goerr.V(PolicyKeyKey, "history_size"))
		}
		p.HistorySize = *c.HistorySize
	}

	hours := []struct {
		key string
		src *int
		dst *int
	}{
		{"fallback.cutoff_hour", c.Fallback.CutoffHour, &p.Fallback.CutoffHour},
		{"fallback.today_hour", c.Fallback.TodayHour, &p.Fallback.TodayHour},
		{"fallback.tomorrow_hour", c.Fallback.TomorrowHour, &p.Fallback.TomorrowHour},
	}
	for _, h := range hours {
		if h.src == nil {
			continue
		}
		if *h.src < 0 || *h.src > 23 {
			return p, goerr.Wrap(ErrInvalidPolicy, "hour must be between 0 and 23",
				goerr.V(PolicyKeyKey, h.key),
				goerr.V("hour", *h.src))
		}
		*h.dst = *h.src
	}

	durations := []struct {
		key string
		src string
		dst *time.Duration
	}{
		{"calendar.lead", c.Calendar.Lead, &p.CalendarLead},
		{"llm.timeout", c.LLM.Timeout, &p.LLMTimeout},
		{"llm.breaker_cooldown", c.LLM.BreakerCooldown, &p.BreakerCooldown},
		{"reminder.window", c.Reminder.Window, &p.ReminderWindow},
	}
	for _, d := range durations {
		if d.src == "" {
			continue
		}
		v, err := parsePositiveDuration(d.key, d.src)
		if err != nil {
			return p, err
		}
		*d.dst = v
	}

	if c.LLM.BreakerFailures != nil {
		if *c.LLM.BreakerFailures == 0 {
			return p, goerr.Wrap(ErrInvalidPolicy, "breaker_failures must be positive", goerr.V(PolicyKeyKey, "llm.breaker_failures"))
		}
		p.BreakerFailures = *c.LLM.BreakerFailures
	}

	return p, nil
}

// SweepInterval returns the reminder sweep interval
func (c *PolicyConfig) SweepInterval() (time.Duration, error) {
	if c.Reminder.SweepInterval == "" {
		return DefaultSweepInterval, nil
	}
	return parsePositiveDuration("reminder.sweep_interval", c.Reminder.SweepInterval)
}

func parsePositiveDuration(key, s string) (time.Duration, error) {
	v, err := time.ParseDuration(s)
	if err != nil {
		return 0, goerr.Wrap(ErrInvalidPolicy, "invalid duration",
			goerr.V(PolicyKeyKey, key),
			goerr.V("value", s))
	}
	if v <= 0 {
		return 0, goerr.Wrap(ErrInvalidPolicy, "duration must be positive",
			goerr.V(PolicyKeyKey, key),
			goerr.V("value", s))
	}
	return v, nil
}
