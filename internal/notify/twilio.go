package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioSender delivers notifications as SMS through the Twilio Messages API.
type TwilioSender struct {
	from   string
	client *twilio.RestClient
}

func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	return newTwilioSender(accountSID, authToken, from, &http.Client{Timeout: 15 * time.Second})
}

func newTwilioSender(accountSID, authToken, from string, httpClient *http.Client) *TwilioSender {
	base := &twclient.Client{
		Credentials: twclient.NewCredentials(accountSID, authToken),
		HTTPClient:  httpClient,
	}
	base.SetAccountSid(accountSID)

	return &TwilioSender{
		from:   from,
		client: twilio.NewRestClientWithParams(twilio.ClientParams{Client: base}),
	}
}

func (s *TwilioSender) Send(ctx context.Context, n Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(n.To)
	params.SetFrom(s.from)
	params.SetBody(n.Body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio create message: %w", err)
	}
	return nil
}
