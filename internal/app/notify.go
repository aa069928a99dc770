package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Notifier delivers one templated notification. Implementations are
// best-effort and at-most-once; the booking workflow never retries.
type Notifier interface {
	Send(ctx context.Context, templateID string, params map[string]string) error
}

const emailJSEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// EmailJSNotifier sends through the EmailJS REST API.
type EmailJSNotifier struct {
	client    *resty.Client
	serviceID string
	publicKey string
}

func NewEmailJSNotifier(serviceID, publicKey string) *EmailJSNotifier {
	return &EmailJSNotifier{
		client:    resty.New().SetTimeout(10 * time.Second),
		serviceID: serviceID,
		publicKey: publicKey,
	}
}

func (n *EmailJSNotifier) Send(ctx context.Context, templateID string, params map[string]string) error {
	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"service_id":      n.serviceID,
			"template_id":     templateID,
			"user_id":         n.publicKey,
			"template_params": params,
		}).
		Post(emailJSEndpoint)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("emailjs send failed: %s: %s", resp.Status(), resp.String())
	}
	return nil
}
