package posekit

import "time"

// Notifier is the fire-and-forget toast sink. Implementations display the
// message for roughly the given duration and auto-dismiss; delivery is
// best-effort and never returns an error.
type Notifier interface {
	Notify(message string, duration time.Duration)
}

const defaultToastDuration = 1600 * time.Millisecond

// NotifyFunc adapts a plain function to the Notifier interface.
type NotifyFunc func(message string, duration time.Duration)

func (f NotifyFunc) Notify(message string, duration time.Duration) {
	f(message, duration)
}

// LogNotifier routes toasts to a Logger. It is the default sink when the
// host application does not provide a visual one.
type LogNotifier struct {
	Log Logger
}

func (n *LogNotifier) Notify(message string, duration time.Duration) {
	orNopLogger(n.Log).Infof("toast: %s", message)
}

func orLogNotifier(n Notifier, log Logger) Notifier {
	if n == nil {
		return &LogNotifier{Log: log}
	}
	return n
}
