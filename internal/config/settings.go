package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings is the operator-edited file: what to watch and where to send it.
// JSON is valid input too, since yaml.v3 reads JSON documents.
type Settings struct {
	Tracking map[string]Tracked `yaml:"tracking" validate:"dive"`
	Email    EmailSettings      `yaml:"email"`
	SMS      SMSSettings        `yaml:"sms"`
	Slack    SlackSettings      `yaml:"slack"`
	Env      EnvNames           `yaml:"env"`
}

// Tracked lists server names (keys of the provider's serverMap) and zone
// codes, both in report order.
type Tracked struct {
	Servers []string `yaml:"servers" validate:"required,min=1"`
	Zones   []string `yaml:"zones" validate:"required,min=1"`
}

// Addresses are not validated here: an enabled channel without them is
// reported as misconfigured at send time and the other channels still run.
type EmailSettings struct {
	Enabled bool       `yaml:"enabled"`
	From    string     `yaml:"from"`
	To      StringList `yaml:"to"`
	Subject string     `yaml:"subject"`
}

type SMSSettings struct {
	Enabled bool   `yaml:"enabled"`
	From    string `yaml:"from"`
	To      string `yaml:"to"`
}

type SlackSettings struct {
	Enabled bool `yaml:"enabled"`
}

// EnvNames holds the names of the environment variables carrying secrets,
// never the secrets themselves. SMTP host and port are plain values.
type EnvNames struct {
	SMTP struct {
		User string `yaml:"user"`
		Pass string `yaml:"pass"`
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"smtp"`
	SMS struct {
		SID  string `yaml:"sid"`
		Auth string `yaml:"auth"`
	} `yaml:"sms"`
	Slack struct {
		Webhook string `yaml:"webhook"`
	} `yaml:"slack"`
}

// LoadSettings reads and validates the settings file.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}
	s.applyDefaults()

	if err := Validate(&s); err != nil {
		return nil, fmt.Errorf("settings %s: %w", path, err)
	}
	return &s, nil
}

func (s *Settings) applyDefaults() {
	if s.Email.Subject == "" {
		s.Email.Subject = "Server availability changed"
	}
	if s.Env.SMTP.User == "" {
		s.Env.SMTP.User = "SMTP_USER"
	}
	if s.Env.SMTP.Pass == "" {
		s.Env.SMTP.Pass = "SMTP_PASS"
	}
	if s.Env.SMS.SID == "" {
		s.Env.SMS.SID = "TWILIO_SID"
	}
	if s.Env.SMS.Auth == "" {
		s.Env.SMS.Auth = "TWILIO_AUTH"
	}
	if s.Env.Slack.Webhook == "" {
		s.Env.Slack.Webhook = "SLACK_WEBHOOK_URL"
	}
}

// TrackedFor returns the tracking block for a provider.
func (s *Settings) TrackedFor(provider string) (Tracked, error) {
	t, ok := s.Tracking[provider]
	if !ok {
		return Tracked{}, fmt.Errorf("%w: %q", ErrProviderNotTracked, provider)
	}
	return t, nil
}

// StringList accepts either a scalar ("a@x, b@y") or a sequence.
type StringList []string

func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = splitList(node.Value)
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	default:
		return fmt.Errorf("line %d: expected string or list", node.Line)
	}
}
