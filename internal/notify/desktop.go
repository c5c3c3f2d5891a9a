package notify

import (
	"context"

	"github.com/gen2brain/beeep"
)

// DesktopNotifier shows notifications through the operating system's
// notification service.
type DesktopNotifier struct{}

func NewDesktopNotifier() *DesktopNotifier {
	return &DesktopNotifier{}
}

func (DesktopNotifier) Send(_ context.Context, title, body string) error {
	return beeep.Notify(title, body, "")
}
