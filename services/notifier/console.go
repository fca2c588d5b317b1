package notifiersvc

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/studiumapp/backend/core/notification"
)

// consoleService prints notifications to the console. for local dev.
type consoleService struct{}

var _ notification.Notifier = (*consoleService)(nil)

func NewConsoleService() *consoleService {
	return &consoleService{}
}

func (svc consoleService) Send(n *notification.Notification) error {
	var sb strings.Builder
	sb.WriteString("---------------------------------------------------------\n")
	sb.WriteString(fmt.Sprintf("Title: %s\n", n.Title))
	sb.WriteString(fmt.Sprintf("Tag: %s\n", n.Tag))
	sb.WriteString(fmt.Sprintf("Body: %s\n", n.Body))
	if len(n.Actions) > 0 {
		actions := make([]string, 0, len(n.Actions))
		for _, a := range n.Actions {
			actions = append(actions, fmt.Sprintf("%s (%s)", a.Title, a.Action))
		}
		sb.WriteString(fmt.Sprintf("Actions: %s\n", strings.Join(actions, ", ")))
	}
	sb.WriteString("---------------------------------------------------------\n")
	_, err := fmt.Fprint(os.Stdout, sb.String())
	return err
}

// ConsoleServiceMock records sent notifications for tests.
type ConsoleServiceMock struct {
	mu            sync.Mutex
	Sent          []*notification.Notification
	disableOutput bool
}

var _ notification.Notifier = (*ConsoleServiceMock)(nil)

func NewConsoleServiceMock(disableOutput bool) *ConsoleServiceMock {
	return &ConsoleServiceMock{disableOutput: disableOutput}
}

func (svc *ConsoleServiceMock) Send(n *notification.Notification) error {
	svc.mu.Lock()
	svc.Sent = append(svc.Sent, n)
	svc.mu.Unlock()
	if !svc.disableOutput {
		return (consoleService{}).Send(n)
	}
	return nil
}
