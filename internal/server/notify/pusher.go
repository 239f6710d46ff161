package notify

import (
	"context"

	"github.com/dmitrijs2005/vivarium/internal/logging"
)

// Pusher delivers one message to one device token.
type Pusher interface {
	Push(ctx context.Context, token string, msg *Message) error
}

// LogPusher writes messages to the logger instead of delivering them.
type LogPusher struct {
	logger logging.Logger
}

func NewLogPusher(logger logging.Logger) *LogPusher {
	return &LogPusher{logger: logger.With("pusher", "log")}
}

func (p *LogPusher) Push(ctx context.Context, token string, msg *Message) error {
	p.logger.Info(ctx, "push",
		"token", token,
		"title", msg.Title,
		"body", msg.Body,
		DataIcon, msg.Data[DataIcon],
		DataLink, msg.Data[DataLink],
	)
	return nil
}
