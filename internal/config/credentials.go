package config

import "os"

// Credentials are the channel secrets, read once at startup so nothing
// deeper in the call stack touches the environment.
type Credentials struct {
	SMTPUser     string
	SMTPPass     string
	SMTPHost     string
	SMTPPort     int
	TwilioSID    string
	TwilioAuth   string
	SlackWebhook string
}

// LookupFunc matches os.LookupEnv; tests pass a map-backed version.
type LookupFunc func(key string) (string, bool)

// ResolveCredentials reads the variables named in s.Env.
// Missing variables leave the field empty; channels report that as
// misconfigured when they are asked to send.
func ResolveCredentials(s *Settings, lookup LookupFunc) Credentials {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(name string) string {
		if name == "" {
			return ""
		}
		v, _ := lookup(name)
		return v
	}
	return Credentials{
		SMTPUser:     get(s.Env.SMTP.User),
		SMTPPass:     get(s.Env.SMTP.Pass),
		SMTPHost:     s.Env.SMTP.Host,
		SMTPPort:     s.Env.SMTP.Port,
		TwilioSID:    get(s.Env.SMS.SID),
		TwilioAuth:   get(s.Env.SMS.Auth),
		SlackWebhook: get(s.Env.Slack.Webhook),
	}
}

// MissingFor lists what an enabled channel needs but does not have: env
// variable names for secrets, settings keys for plain values. Used by
// preflight.
func MissingFor(s *Settings, c Credentials) map[string][]string {
	out := map[string][]string{}
	if s.Email.Enabled {
		if c.SMTPUser == "" {
			out["email"] = append(out["email"], s.Env.SMTP.User)
		}
		if c.SMTPPass == "" {
			out["email"] = append(out["email"], s.Env.SMTP.Pass)
		}
		if c.SMTPHost == "" {
			out["email"] = append(out["email"], "env.smtp.host")
		}
		if c.SMTPPort == 0 {
			out["email"] = append(out["email"], "env.smtp.port")
		}
		if s.Email.From == "" {
			out["email"] = append(out["email"], "email.from")
		}
		if len(s.Email.To) == 0 {
			out["email"] = append(out["email"], "email.to")
		}
	}
	if s.SMS.Enabled {
		if c.TwilioSID == "" {
			out["sms"] = append(out["sms"], s.Env.SMS.SID)
		}
		if c.TwilioAuth == "" {
			out["sms"] = append(out["sms"], s.Env.SMS.Auth)
		}
		if s.SMS.From == "" {
			out["sms"] = append(out["sms"], "sms.from")
		}
		if s.SMS.To == "" {
			out["sms"] = append(out["sms"], "sms.to")
		}
	}
	if s.Slack.Enabled && c.SlackWebhook == "" {
		out["slack"] = append(out["slack"], s.Env.Slack.Webhook)
	}
	return out
}
