package notification

import (
	"log"
	"os"
	"sync"

	"github.com/studiumapp/backend/core"
)

// notifierRecorder captures dispatched notifications for assertions.
type notifierRecorder struct {
	mu   sync.Mutex
	sent []*Notification
}

var _ Notifier = (*notifierRecorder)(nil)

func (r *notifierRecorder) Send(n *Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return nil
}

func (r *notifierRecorder) sentTags() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	tags := make([]string, 0, len(r.sent))
	for _, n := range r.sent {
		tags = append(tags, n.Tag)
	}
	return tags
}

func testLogger() core.Logger {
	l := core.NewStdLogger(log.New(os.Stderr, "test: ", log.LstdFlags))
	l.Enable(false)
	return l
}
