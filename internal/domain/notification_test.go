package domain

import (
	"encoding/json"
	"testing"
)

func TestNotificationData_AdminOnly(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"absent", `{}`, false},
		{"bool true", `{"admin_only": true}`, true},
		{"bool false", `{"admin_only": false}`, false},
		{"number one", `{"admin_only": 1}`, true},
		{"number zero", `{"admin_only": 0}`, false},
		{"string true", `{"admin_only": "true"}`, true},
		{"string false", `{"admin_only": "false"}`, false},
		{"string zero", `{"admin_only": "0"}`, false},
		{"empty string", `{"admin_only": ""}`, false},
		{"null", `{"admin_only": null}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data NotificationData
			if err := json.Unmarshal([]byte(tt.raw), &data); err != nil {
				t.Fatalf("failed to unmarshal: %v", err)
			}
			if got := data.AdminOnly(); got != tt.want {
				t.Errorf("AdminOnly() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNotificationData_URL(t *testing.T) {
	if got := (NotificationData{"url": "/admin"}).URL(); got != "/admin" {
		t.Errorf("URL() = %q, want /admin", got)
	}
	if got := (NotificationData{}).URL(); got != "/" {
		t.Errorf("URL() = %q, want default /", got)
	}
	if got := (NotificationData{"url": ""}).URL(); got != "/" {
		t.Errorf("empty url should fall back to /, got %q", got)
	}
	if got := (NotificationData(nil)).URL(); got != "/" {
		t.Errorf("nil data should fall back to /, got %q", got)
	}
}
