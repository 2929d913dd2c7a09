package service

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Notifier is the transactional email collaborator. Deliveries are
// fire-and-forget side effects of lifecycle transitions; a failed delivery
// is logged and never rolls back the transition that triggered it.
type Notifier interface {
	Notify(ctx context.Context, recipient, subject, body string)
}

// LogNotifier is the default implementation used until a real mail provider
// is wired in deployment. It records every delivery attempt.
type LogNotifier struct {
	log *logrus.Logger
}

func NewLogNotifier(log *logrus.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify dispatches the delivery asynchronously. The caller's context is
// not reused; the transition that triggered the mail has already committed.
func (n *LogNotifier) Notify(_ context.Context, recipient, subject, body string) {
	go func() {
		n.log.WithFields(logrus.Fields{
			"recipient": recipient,
			"subject":   subject,
		}).Info("Notification dispatched")
	}()
}
