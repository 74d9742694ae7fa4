// Package sms sends challenge codes over the beneficiary's registered
// contact channel.
package sms

import (
	"context"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// Sender delivers one text message to one phone number.
type Sender interface {
	Send(ctx context.Context, phone, message string) error
}

// snsAPI is the slice of the SNS client Send needs.
type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSSender struct {
	client snsAPI
}

func NewSNSSender(ctx context.Context, region string) (*SNSSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SNSSender{client: sns.NewFromConfig(cfg)}, nil
}

func (s *SNSSender) Send(ctx context.Context, phone, message string) error {
	_, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(phone),
		Message:     aws.String(message),
		// Transactional bypasses the promotional queue so codes arrive
		// before their TTL runs out.
		MessageAttributes: map[string]types.MessageAttributeValue{
			"AWS.SNS.SMS.SMSType": {
				DataType:    aws.String("String"),
				StringValue: aws.String("Transactional"),
			},
		},
	})
	return err
}

// DryRunSender logs instead of publishing; used in local/dev environments
// without SNS credentials.
type DryRunSender struct{}

func (DryRunSender) Send(_ context.Context, phone, message string) error {
	log.Printf("sms dry-run to %s: %s", phone, message)
	return nil
}
