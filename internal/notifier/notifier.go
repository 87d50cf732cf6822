package notifier

// Notifier is the out-of-band side channel for approval failure alerts.
// Callers must treat Send as best-effort and never propagate its error into
// the approval outcome.
type Notifier interface {
	Send(message string) error
}
