package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/mrz1836/postmark"

	"github.com/guyghost/wakeve-auth/domain"
)

// PostmarkService implements domain.NotificationService using Postmark's
// transactional email API.
type PostmarkService struct {
	client      postmarkSender
	senderEmail string
	timeout     time.Duration
}

// postmarkSender is the slice of the Postmark client this service uses;
// tests substitute a fake.
type postmarkSender interface {
	SendEmail(ctx context.Context, email postmark.Email) (postmark.EmailResponse, error)
}

// NewPostmarkService creates a Postmark-backed notification service. Both
// tokens and the sender address are required so a misconfigured deployment
// fails at startup, not at first send.
func NewPostmarkService(serverToken, accountToken, senderEmail string) (*PostmarkService, error) {
	if serverToken == "" {
		return nil, fmt.Errorf("postmark server token is required")
	}
	if senderEmail == "" {
		return nil, fmt.Errorf("postmark sender email is required")
	}
	return &PostmarkService{
		client:      postmark.NewClient(serverToken, accountToken),
		senderEmail: senderEmail,
		timeout:     10 * time.Second,
	}, nil
}

// SendEmail implements domain.NotificationService.
func (s *PostmarkService) SendEmail(to, subject, body string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:     s.senderEmail,
		To:       to,
		Subject:  subject,
		TextBody: body,
		Tag:      "auth-otp",
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("postmark error %d: %s", resp.ErrorCode, resp.Message)
	}
	return nil
}

var _ domain.NotificationService = (*PostmarkService)(nil)
