package notify

import (
	"context"

	"go.uber.org/zap"
)

type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Name() string { return "log" }

func (n *LogNotifier) Notify(_ context.Context, msg Message) error {
	n.log.Info("notification",
		zap.String("msg_id", msg.ID),
		zap.String("topic", msg.Topic),
		zap.ByteString("payload", msg.Payload),
	)
	return nil
}
