package mail

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/tazhibayda/club-service/internal/log"
	"github.com/tazhibayda/club-service/internal/queue"
)

// Sender delivers the email rendition of a notification. The default
// implementation only logs; real SMTP lives behind the same interface.
type Sender interface {
	Send(to, subject, body string) error
}

type LogSender struct{}

func (LogSender) Send(to, subject, body string) error {
	log.L().Info("mail out",
		zap.String("to", to), zap.String("subject", subject), zap.String("body", body))
	return nil
}

// HandleNotificationCreated decodes a queue message and hands it to the sender.
// Malformed payloads are dropped (acked), not requeued forever.
func HandleNotificationCreated(s Sender) func([]byte) error {
	return func(b []byte) error {
		var ev queue.NotificationCreated
		if err := json.Unmarshal(b, &ev); err != nil {
			log.L().Warn("mail worker: bad payload, dropping", zap.Error(err))
			return nil
		}
		return s.Send(ev.RecipientEmail, ev.Title, ev.Message)
	}
}
