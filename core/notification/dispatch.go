package notification

import (
	"net/url"
	"strings"

	"github.com/studiumapp/backend/core"
)

// Notification actions
const (
	ActionComplete   = "complete"
	ActionReschedule = "reschedule"
)

const (
	taskTagPrefix = "task-"
	calendarPath  = "/calendar"
)

type (
	// Action is one button rendered on a notification.
	Action struct {
		Action string `json:"action"`
		Title  string `json:"title"`
	}

	// Notification is the payload handed to the push/display transport.
	// The tag is the notification's stable identity: re-sending with the same
	// tag replaces the previous rendering, and click routing decodes the task
	// id back out of it.
	Notification struct {
		Title              string   `json:"title"`
		Body               string   `json:"body"`
		Icon               string   `json:"icon,omitempty"`
		Tag                string   `json:"tag"`
		RequireInteraction bool     `json:"requireInteraction"`
		Actions            []Action `json:"actions,omitempty"`
	}

	// Notifier is any transport that can display a Notification to the user;
	// the actual browser/OS push service sits behind implementations.
	Notifier interface {
		Send(n *Notification) error
	}

	// Dispatcher renders notifications through a Notifier after consulting the
	// permission gate. Denied or undecided permission drops the notification
	// silently.
	Dispatcher struct {
		gate     PermissionGate
		notifier Notifier
		logger   core.Logger
	}
)

func NewDispatcher(gate PermissionGate, notifier Notifier, logger core.Logger) *Dispatcher {
	return &Dispatcher{
		gate:     gate,
		notifier: notifier,
		logger:   logger,
	}
}

func (d *Dispatcher) Dispatch(n *Notification) {
	if d.gate.Request() != PermissionGranted {
		d.logger.Debug("notification dropped, permission not granted", map[string]interface{}{"tag": n.Tag})
		return
	}
	if err := d.notifier.Send(n); err != nil {
		d.logger.Error("sending notification", err, map[string]interface{}{"tag": n.Tag})
	}
}

// NewTaskNotification builds a user-actionable notification identified by the
// task tag. It always requires interaction so it stays visible until acted on.
// The daily slots pass their slot name as a synthetic task id, so their body
// clicks deep-link like any other.
func NewTaskNotification(title, body, taskID string, actions ...Action) *Notification {
	return &Notification{
		Title:              title,
		Body:               body,
		Tag:                TaskTag(taskID),
		RequireInteraction: true,
		Actions:            actions,
	}
}

// TaskTag encodes a task id into a notification tag.
func TaskTag(taskID string) string {
	return taskTagPrefix + taskID
}

// TaskIDFromTag recovers the task id from a notification tag. The prefix is
// stripped whole, so ids containing hyphens survive the round trip.
func TaskIDFromTag(tag string) (string, bool) {
	if !strings.HasPrefix(tag, taskTagPrefix) {
		return "", false
	}
	return tag[len(taskTagPrefix):], true
}

// ClickTarget resolves a notification click to its deep link. action is the
// clicked button's action, or empty for a click on the notification body.
func ClickTarget(tag, action string) string {
	id, ok := TaskIDFromTag(tag)
	if !ok {
		return calendarPath
	}
	target := calendarPath + "?task=" + url.QueryEscape(id)
	switch action {
	case ActionComplete, ActionReschedule:
		target += "&action=" + action
	}
	return target
}
