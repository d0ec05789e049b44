package sms

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
)

type messageCreator interface {
	CreateMessage(params *api.CreateMessageParams) (*api.ApiV2010Message, error)
}

type TwilioProvider struct {
	client     messageCreator
	fromNumber string
}

func NewTwilioProvider(accountSID, authToken, fromNumber string) *TwilioProvider {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioProvider{
		client:     client.Api,
		fromNumber: fromNumber,
	}
}

func (t *TwilioProvider) Send(ctx context.Context, msg *Message) (*Result, error) {
	if err := msg.validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := &api.CreateMessageParams{}
	params.SetTo(msg.To)
	params.SetFrom(t.from(msg.From))
	params.SetBody(msg.Body)

	resp, err := t.client.CreateMessage(params)
	if err != nil {
		return nil, fmt.Errorf("twilio send: %w", err)
	}

	res := &Result{Status: "sent"}
	if resp.Sid != nil {
		res.MessageID = *resp.Sid
	}
	if resp.Status != nil {
		res.Status = string(*resp.Status)
	}

	return res, nil
}

func (t *TwilioProvider) from(from string) string {
	if from != "" {
		return from
	}
	return t.fromNumber
}
