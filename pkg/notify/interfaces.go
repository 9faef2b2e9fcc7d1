// Package notify turns qualifying alert packets into outbound email,
// gated by the cooldown window.
package notify

import "context"

//go:generate mockgen -destination=mock_notify.go -package=notify github.com/groundsense/groundwatch/pkg/notify Transport

// Message is the payload handed to the notification transport.
type Message struct {
	From     string   `json:"from"`
	To       []string `json:"to"`
	Subject  string   `json:"subject"`
	HTMLBody string   `json:"html"`
}

// Transport is the outbound notification boundary. Failures come back
// as errors and never propagate past the dispatcher.
type Transport interface {
	Send(ctx context.Context, msg *Message) error
}
