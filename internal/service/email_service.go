package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog/log"
)

// PayoutNotice данные письма о выполненной выплате
type PayoutNotice struct {
	ToEmail   string
	UserName  string
	Amount    int
	UPI       string
	RequestID string
}

// EmailService отправляет транзакционные письма
type EmailService interface {
	SendPayoutCompleted(ctx context.Context, notice PayoutNotice) error
}

// NoopEmailService используется, когда отправка писем не настроена
type NoopEmailService struct{}

func (s *NoopEmailService) SendPayoutCompleted(ctx context.Context, notice PayoutNotice) error {
	log.Debug().Str("component", "EmailService").Str("to", notice.ToEmail).Msg("noop: письмо о выплате")
	return nil
}

// ResendEmailService отправляет письма через Resend REST API
type ResendEmailService struct {
	from   string
	client *resend.Client
}

func NewResendEmailService(apiKey, from string) (*ResendEmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from is required")
	}
	return &ResendEmailService{
		from:   from,
		client: resend.NewClient(apiKey),
	}, nil
}

func (s *ResendEmailService) SendPayoutCompleted(ctx context.Context, notice PayoutNotice) error {
	if strings.TrimSpace(notice.ToEmail) == "" {
		return fmt.Errorf("recipient email is required")
	}
	params, options := payoutEmail(s.from, notice)

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		_, err := s.client.Emails.SendWithOptions(ctx, params, options)
		if err == nil {
			return nil
		}
		lastErr = err

		if wait, ok := resendRetryDelay(err, attempt); ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				continue
			}
		}

		return fmt.Errorf("resend send failed: %w", err)
	}

	return fmt.Errorf("resend send failed after retries: %w", lastErr)
}

// payoutEmail собирает письмо. Ключ идемпотентности привязан к запросу,
// повторное подтверждение не приводит ко второму письму.
func payoutEmail(from string, n PayoutNotice) (*resend.SendEmailRequest, *resend.SendEmailOptions) {
	name := strings.TrimSpace(n.UserName)
	if name == "" {
		name = "there"
	}
	params := &resend.SendEmailRequest{
		From:    from,
		To:      []string{strings.TrimSpace(n.ToEmail)},
		Subject: "Your IndCric reward has been paid",
		Text: fmt.Sprintf("Hi %s, your reward of Rs %d for a perfect quiz score has been sent to %s. Reference: %s.",
			name, n.Amount, n.UPI, n.RequestID),
		Html: fmt.Sprintf("<p>Hi %s,</p><p>Your reward of <strong>&#8377;%d</strong> for a perfect quiz score has been sent to <strong>%s</strong>.</p><p>Reference: %s</p>",
			name, n.Amount, n.UPI, n.RequestID),
	}
	options := &resend.SendEmailOptions{}
	if n.RequestID != "" {
		options.IdempotencyKey = "payout-" + n.RequestID
	}
	return params, options
}

func resendRetryDelay(err error, attempt int) (time.Duration, bool) {
	var rateLimitErr *resend.RateLimitError
	if errors.As(err, &rateLimitErr) {
		if seconds, convErr := strconv.Atoi(strings.TrimSpace(rateLimitErr.RetryAfter)); convErr == nil && seconds > 0 {
			if seconds > 30 {
				seconds = 30
			}
			return time.Duration(seconds) * time.Second, true
		}
		return time.Duration(attempt+1) * time.Second, true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "temporar") {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	return 0, false
}
