package notify

import (
	"fmt"

	"github.com/gen2brain/beeep"
	"github.com/sirupsen/logrus"
)

const (
	notificationTitle = "pacwatch"
	notificationIcon  = "software-update-available"
)

// Notifier sends desktop notifications when the pending-update total moves.
// It remembers the last settled total itself, so callers just feed it every
// settled state.
type Notifier struct {
	send func(title, message, icon string) error

	previousTotal int
	hasPrevious   bool
}

func New() *Notifier {
	return &Notifier{send: beeep.Notify}
}

// Observe records a settled total and notifies when it differs from the
// previous one. The first observed total only seeds the comparison.
func (n *Notifier) Observe(total int) {
	if n.hasPrevious && n.previousTotal != total {
		n.CountChange(n.previousTotal, total)
	}
	n.previousTotal = total
	n.hasPrevious = true
}

// CountChange fires a notification about a count change. Best effort:
// failures are logged at debug and swallowed.
func (n *Notifier) CountChange(previous, current int) {
	if err := n.send(notificationTitle, notificationBody(previous, current), notificationIcon); err != nil {
		logrus.Debugf("failed to send desktop notification: %v", err)
	}
}

func notificationBody(previous, current int) string {
	return fmt.Sprintf("Pending updates changed from %d to %d", previous, current)
}
