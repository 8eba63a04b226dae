package provider

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/resend/resend-go/v3"
	"go.uber.org/zap"

	"campus-notify/internal/domain"
)

// EmailProvider delivers rendered email content through the Resend API.
type EmailProvider struct {
	client    *resend.Client
	fromEmail string
	devEmail  string
	logger    *zap.Logger
}

func NewEmailProvider(apiKey, fromEmail, devEmail string, logger *zap.Logger) *EmailProvider {
	return &EmailProvider{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		devEmail:  devEmail,
		logger:    logger,
	}
}

func (p *EmailProvider) Send(ctx context.Context, content *domain.NotificationContent) Result {
	to := content.Recipient
	if content.DevOnly {
		to = p.devEmail
	}

	attachments := make([]*resend.Attachment, 0, len(content.Attachments))
	for _, a := range content.Attachments {
		data, err := base64.StdEncoding.DecodeString(a.Data)
		if err != nil {
			return Failure(fmt.Errorf("decode attachment %q: %w", a.Filename, err))
		}
		attachments = append(attachments, &resend.Attachment{
			Filename: a.Filename,
			Content:  data,
		})
	}

	params := &resend.SendEmailRequest{
		From:        fmt.Sprintf("%s <%s>", content.FromName, p.fromEmail),
		To:          []string{to},
		Subject:     content.Subject,
		Html:        content.HTMLBody,
		Attachments: attachments,
	}

	sent, err := p.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return Failure(err)
	}

	p.logger.Debug("email dispatched",
		zap.String("to", to),
		zap.String("provider_id", sent.Id),
		zap.Bool("dev_only", content.DevOnly))
	return Success()
}
