package sms

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snsTypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

type publisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSProvider struct {
	client publisher
}

// NewSNSProvider loads AWS credentials from the default chain.
func NewSNSProvider(ctx context.Context, region string) (*SNSProvider, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SNSProvider{client: sns.NewFromConfig(cfg)}, nil
}

// Emergency alerts are always sent as transactional SMS.
func (a *SNSProvider) Send(ctx context.Context, msg *Message) (*Result, error) {
	if err := msg.validate(); err != nil {
		return nil, err
	}

	input := &sns.PublishInput{
		PhoneNumber: aws.String(msg.To),
		Message:     aws.String(msg.Body),
		MessageAttributes: map[string]snsTypes.MessageAttributeValue{
			"AWS.SNS.SMS.SMSType": {
				DataType:    aws.String("String"),
				StringValue: aws.String("Transactional"),
			},
		},
	}
	if msg.From != "" {
		input.MessageAttributes["AWS.SNS.SMS.SenderID"] = snsTypes.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(msg.From),
		}
	}

	resp, err := a.client.Publish(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("sns publish: %w", err)
	}

	return &Result{MessageID: aws.ToString(resp.MessageId), Status: "sent"}, nil
}
