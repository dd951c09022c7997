package noop

import (
	"context"
	"fmt"
	"log"
	"net/url"

	"poaudit/internal/port"
)

type noopSender struct {
	frontendURL string
}

// NewNoopSender creates a no-op EmailSender that logs verification URLs to stdout.
func NewNoopSender(frontendURL string) port.EmailSender {
	return &noopSender{frontendURL: frontendURL}
}

func (s *noopSender) SendVerificationEmail(_ context.Context, toEmail, toName, verificationToken string) error {
	verifyURL := fmt.Sprintf("%s/verify-email?token=%s", s.frontendURL, url.QueryEscape(verificationToken))
	log.Printf("[NOOP EMAIL] Verification email for %s (%s): %s", toName, toEmail, verifyURL)
	return nil
}

func (s *noopSender) SendPasswordResetEmail(_ context.Context, toEmail, toName, resetToken string) error {
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, url.QueryEscape(resetToken))
	log.Printf("[NOOP EMAIL] Password reset for %s (%s): %s", toName, toEmail, resetURL)
	return nil
}

func (s *noopSender) SendBatchCompleteEmail(_ context.Context, toEmail, toName, batchName string, orderCount, failureCount int) error {
	log.Printf("[NOOP EMAIL] Batch complete for %s (%s): batch %q, %d orders, %d failed",
		toName, toEmail, batchName, orderCount, failureCount)
	return nil
}
