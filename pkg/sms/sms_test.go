package sms

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	api "github.com/twilio/twilio-go/rest/api/v2010"
)

type fakeCreator struct {
	got *api.CreateMessageParams
	err error
}

func (f *fakeCreator) CreateMessage(params *api.CreateMessageParams) (*api.ApiV2010Message, error) {
	f.got = params
	if f.err != nil {
		return nil, f.err
	}
	sid := "SM123"
	return &api.ApiV2010Message{Sid: &sid}, nil
}

type fakePublisher struct {
	got *sns.PublishInput
	err error
}

func (f *fakePublisher) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.got = params
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("sns-1")}, nil
}

func TestTwilioProvider_Send(t *testing.T) {
	fc := &fakeCreator{}
	p := &TwilioProvider{client: fc, fromNumber: "+15005550006"}

	res, err := p.Send(context.Background(), &Message{To: "+919800000001", Body: "help"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if res.MessageID != "SM123" || res.Status != "sent" {
		t.Fatalf("unexpected result %#v", res)
	}
	if *fc.got.To != "+919800000001" || *fc.got.From != "+15005550006" || *fc.got.Body != "help" {
		t.Fatalf("unexpected params %#v", fc.got)
	}

	fc.err = errors.New("rate limited")
	if _, err := p.Send(context.Background(), &Message{To: "+919800000001"}); err == nil {
		t.Fatalf("expected provider error")
	}
	if _, err := p.Send(context.Background(), &Message{}); !errors.Is(err, ErrNoRecipient) {
		t.Fatalf("expected ErrNoRecipient, got %v", err)
	}
}

func TestSNSProvider_Send(t *testing.T) {
	fp := &fakePublisher{}
	p := &SNSProvider{client: fp}

	res, err := p.Send(context.Background(), &Message{To: "+919800000001", From: "HerSafety", Body: "help"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if res.MessageID != "sns-1" {
		t.Fatalf("unexpected result %#v", res)
	}
	if aws.ToString(fp.got.Message) != "help" || aws.ToString(fp.got.PhoneNumber) != "+919800000001" {
		t.Fatalf("unexpected input %#v", fp.got)
	}
	if _, ok := fp.got.MessageAttributes["AWS.SNS.SMS.SenderID"]; !ok {
		t.Fatalf("expected sender id attribute")
	}

	fp.err = errors.New("throttled")
	if _, err := p.Send(context.Background(), &Message{To: "+1"}); err == nil {
		t.Fatalf("expected publish error")
	}
}

func TestLogProvider_Send(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogProvider(slog.New(slog.NewJSONHandler(&buf, nil)))

	first, err := p.Send(context.Background(), &Message{To: "+1", Body: "help"})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	second, _ := p.Send(context.Background(), &Message{To: "+2", Body: "help"})
	if first.MessageID == second.MessageID {
		t.Fatalf("expected distinct message ids")
	}
	if !strings.Contains(buf.String(), `"to":"+1"`) {
		t.Fatalf("expected message to be logged, got %s", buf.String())
	}
}
