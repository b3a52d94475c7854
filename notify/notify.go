// Package notify sends desktop notifications for finished tunnel actions.
// It talks to org.freedesktop.Notifications over the session bus and falls
// back to notify-send when no bus is available.
package notify

import (
	"os/exec"

	"github.com/godbus/dbus/v5"

	"github.com/mohsafer/tunneldeck/common"
)

// Kind represents the type of notification.
type Kind int

const (
	KindInfo Kind = iota
	KindSuccess
	KindWarning
	KindError
)

// icon maps a notification kind to a freedesktop icon name.
func (k Kind) icon() string {
	switch k {
	case KindSuccess:
		return "network-vpn"
	case KindWarning:
		return "dialog-warning"
	case KindError:
		return "dialog-error"
	default:
		return "network-vpn"
	}
}

// urgency maps a notification kind to the freedesktop urgency level.
func (k Kind) urgency() byte {
	switch k {
	case KindError:
		return 2 // critical
	case KindWarning:
		return 1 // normal
	default:
		return 0 // low
	}
}

// Notifier sends desktop notifications. The zero value is usable; Enabled
// false turns every call into a no-op so callers need no guards.
type Notifier struct {
	// Enabled gates all notifications.
	Enabled bool

	conn *dbus.Conn
}

// New creates a notifier, connecting to the session bus when possible.
// A failed bus connection is not an error; delivery falls back to
// notify-send per notification.
func New(enabled bool) *Notifier {
	n := &Notifier{Enabled: enabled}
	if !enabled {
		return n
	}

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		common.LogWarn("Session bus unavailable, falling back to notify-send: %v", err)
		return n
	}
	n.conn = conn
	return n
}

// Close releases the bus connection.
func (n *Notifier) Close() {
	if n.conn != nil {
		_ = n.conn.Close()
		n.conn = nil
	}
}

// Notify sends a notification with the default icon.
func (n *Notifier) Notify(title, message string) error {
	return n.Send(KindInfo, title, message)
}

// NotifyWithIcon sends a notification with a custom icon.
func (n *Notifier) NotifyWithIcon(title, message, icon string) error {
	return n.send(title, message, icon, KindInfo.urgency())
}

// Send sends a notification of the given kind.
func (n *Notifier) Send(kind Kind, title, message string) error {
	return n.send(title, message, kind.icon(), kind.urgency())
}

func (n *Notifier) send(title, message, icon string, urgency byte) error {
	if !n.Enabled {
		return nil
	}

	if n.conn != nil {
		if err := n.sendDBus(title, message, icon, urgency); err == nil {
			return nil
		} else {
			common.LogWarn("D-Bus notification failed, trying notify-send: %v", err)
		}
	}

	return n.sendFallback(title, message, icon, urgency)
}

// sendDBus delivers via org.freedesktop.Notifications.Notify.
func (n *Notifier) sendDBus(title, message, icon string, urgency byte) error {
	obj := n.conn.Object("org.freedesktop.Notifications", "/org/freedesktop/Notifications")
	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(urgency),
	}
	call := obj.Call("org.freedesktop.Notifications.Notify", 0,
		common.AppName, // app_name
		uint32(0),      // replaces_id
		icon,           // app_icon
		title,          // summary
		message,        // body
		[]string{},     // actions
		hints,
		int32(-1), // expire_timeout: server default
	)
	return call.Err
}

// sendFallback shells out to notify-send.
func (n *Notifier) sendFallback(title, message, icon string, urgency byte) error {
	level := "low"
	switch urgency {
	case 2:
		level = "critical"
	case 1:
		level = "normal"
	}

	cmd := exec.Command("notify-send",
		"--app-name="+common.AppName,
		"--icon="+icon,
		"--urgency="+level,
		title,
		message,
	)
	if err := cmd.Run(); err != nil {
		common.LogWarn("Error showing notification: %v", err)
		return common.WrapError(err, "notification failed")
	}
	return nil
}

// NotifyOutcome sends the appropriate notification for a finished action.
func (n *Notifier) NotifyOutcome(label string, success bool, reason string) {
	if success {
		_ = n.Send(KindSuccess, common.AppName, label+" completed successfully")
		return
	}
	_ = n.Send(KindError, common.AppName, label+" failed: "+reason)
}
