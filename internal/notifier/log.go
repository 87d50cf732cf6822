package notifier

import "log/slog"

// LogNotifier writes alerts to the application log. Default when no SMTP or
// Redis transport is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(message string) error {
	n.logger.Warn("payment failure alert", "message", message)
	return nil
}
