package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/avalonfair/gatehouse/pkg/slogx"
)

type sesMailer struct {
	client *ses.Client
	from   string
}

func newSESMailer(cfg Config) (*sesMailer, error) {
	awsCfg := aws.Config{
		Region: cfg.SES.Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(
				cfg.SES.AccessKeyID,
				cfg.SES.SecretAccessKey,
				"",
			),
		),
	}
	return &sesMailer{
		client: ses.NewFromConfig(awsCfg),
		from:   fromHeader(cfg),
	}, nil
}

func (s *sesMailer) Send(ctx context.Context, to, subject, html, text string) error {
	log := slogx.FromContext(ctx)

	input := &ses.SendEmailInput{
		Source: aws.String(s.from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{},
		},
	}
	if html != "" {
		input.Message.Body.Html = &types.Content{
			Data:    aws.String(html),
			Charset: aws.String("UTF-8"),
		}
	}
	if text != "" {
		input.Message.Body.Text = &types.Content{
			Data:    aws.String(text),
			Charset: aws.String("UTF-8"),
		}
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}

	log.Debug("email sent via SES",
		slog.String("message_id", aws.ToString(result.MessageId)),
	)
	return nil
}
