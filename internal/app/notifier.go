package app

// Notifier receives fire-and-forget events about catalog and stock changes.
// Implementations must not block; delivery is not part of any correctness
// contract here.
type Notifier interface {
	Publish(event string, payload any)
}

type noopNotifier struct{}

func (noopNotifier) Publish(string, any) {}
