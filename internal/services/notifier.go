package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Notifier sends the interview invitation through the Resend API. Ordinary
// delivery failures (bad address, provider rejection) come back as
// delivered=false with a nil error; only transport-level failure returns an
// error, and even that is non-fatal to the pipeline.
type Notifier interface {
	SendInvitation(ctx context.Context, email string, score float64) (bool, error)
}

type resendNotifier struct {
	client        *resty.Client
	fromAddress   string
	bookingURL    string
	promptBuilder *PromptBuilder
	logger        *zap.Logger
}

func NewResendNotifier(apiKey, baseURL, fromAddress, bookingURL string, timeout time.Duration, logger *zap.Logger) Notifier {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")

	return &resendNotifier{
		client:        client,
		fromAddress:   fromAddress,
		bookingURL:    bookingURL,
		promptBuilder: NewPromptBuilder(),
		logger:        logger,
	}
}

func (n *resendNotifier) SendInvitation(ctx context.Context, email string, score float64) (bool, error) {
	subject, body := n.promptBuilder.BuildInvitationEmail(score, n.bookingURL)

	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"from":    n.fromAddress,
			"to":      []string{email},
			"subject": subject,
			"text":    body,
		}).
		Post("/emails")
	if err != nil {
		return false, fmt.Errorf("email provider unreachable: %w", err)
	}

	if resp.IsError() {
		n.logger.Warn("email provider rejected invitation",
			zap.String("email", email),
			zap.Int("status", resp.StatusCode()),
			zap.String("response", gjson.GetBytes(resp.Body(), "message").String()))
		return false, nil
	}

	n.logger.Info("interview invitation sent",
		zap.String("email", email),
		zap.String("provider_id", gjson.GetBytes(resp.Body(), "id").String()))
	return true, nil
}
