package notify

import "testing"

func TestKind_Icon(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindInfo, "network-vpn"},
		{KindSuccess, "network-vpn"},
		{KindWarning, "dialog-warning"},
		{KindError, "dialog-error"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.kind.icon(); got != tt.expected {
				t.Errorf("icon() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestKind_Urgency(t *testing.T) {
	tests := []struct {
		name     string
		kind     Kind
		expected byte
	}{
		{"info is low", KindInfo, 0},
		{"success is low", KindSuccess, 0},
		{"warning is normal", KindWarning, 1},
		{"error is critical", KindError, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.kind.urgency(); got != tt.expected {
				t.Errorf("urgency() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNotifier_DisabledIsNoOp(t *testing.T) {
	n := New(false)
	defer n.Close()

	if err := n.Notify("title", "message"); err != nil {
		t.Errorf("disabled Notify() = %v, want nil", err)
	}
	if err := n.Send(KindError, "title", "message"); err != nil {
		t.Errorf("disabled Send() = %v, want nil", err)
	}
	if err := n.NotifyWithIcon("title", "message", "icon"); err != nil {
		t.Errorf("disabled NotifyWithIcon() = %v, want nil", err)
	}
}

func TestNotifier_CloseIsIdempotent(t *testing.T) {
	n := New(false)
	n.Close()
	n.Close()
}
