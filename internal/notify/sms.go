package notify

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// maxSMSBody is Twilio's limit for a single message body.
const maxSMSBody = 1600

type SMSConfig struct {
	Enabled    bool
	AccountSID string
	AuthToken  string
	From       string
	To         string
}

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// SMS sends the report body through Twilio's Messages API.
type SMS struct {
	cfg    SMSConfig
	client func(SMSConfig) messageCreator
}

func NewSMS(cfg SMSConfig) *SMS {
	return &SMS{cfg: cfg, client: twilioClient}
}

func twilioClient(cfg SMSConfig) messageCreator {
	return twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	}).Api
}

func (s *SMS) Name() string  { return "sms" }
func (s *SMS) Enabled() bool { return s.cfg.Enabled }

func (s *SMS) Ready() error {
	return missing(map[string]bool{
		"twilio account sid": s.cfg.AccountSID == "",
		"twilio auth token":  s.cfg.AuthToken == "",
		"sms from":           s.cfg.From == "",
		"sms to":             s.cfg.To == "",
	})
}

// Send ignores ctx: the Twilio client has no context-aware call.
func (s *SMS) Send(_ context.Context, msg Message) error {
	body := msg.Body
	if r := []rune(body); len(r) > maxSMSBody {
		body = string(r[:maxSMSBody])
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(s.cfg.To)
	params.SetFrom(s.cfg.From)
	params.SetBody(body)

	resp, err := s.client(s.cfg).CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio create message: %w", err)
	}
	if resp != nil && resp.ErrorCode != nil {
		return fmt.Errorf("twilio error code %d", *resp.ErrorCode)
	}
	return nil
}
