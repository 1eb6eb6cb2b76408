package profile

import "testing"

func TestUptime(t *testing.T) {
	tests := []struct {
		name      string
		status    string
		timestamp int64
		curTime   int64
		expected  string
	}{
		{"mixed units", StatusConnected, 100, 100 + 90065, "1 day 1 hour 1 min 5 secs"},
		{"seconds only", StatusConnected, 100, 145, "45 secs"},
		{"single second", StatusConnected, 100, 101, "1 sec"},
		{"exact minute stays seconds", StatusConnected, 100, 160, "60 secs"},
		{"exact hour stays minutes", StatusConnected, 100, 100 + 3600, "60 mins"},
		{"whole hours", StatusConnected, 100, 100 + 7200, "2 hours"},
		{"not connected", StatusDisconnected, 100, 200, ""},
		{"no timestamp", StatusConnected, 0, 200, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Profile{
				Status:    tt.status,
				Timestamp: tt.timestamp,
			}
			if got := p.Uptime(tt.curTime); got != tt.expected {
				t.Errorf("Uptime() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFormatedNameLogo(t *testing.T) {
	tests := []struct {
		name         string
		profile      Profile
		expectedName string
		expectedLogo string
	}{
		{
			"explicit name",
			Profile{Name: "Office"},
			"Office", "O",
		},
		{
			"user organization server",
			Profile{User: "user0", Organization: "org0", Server: "east"},
			"user0@org0 (east)", "e",
		},
		{
			"user only",
			Profile{User: "user0"},
			"user0", "u",
		},
		{
			"server only",
			Profile{Server: "east"},
			"east", "e",
		},
		{
			"uv name fallback",
			Profile{UVName: "device0"},
			"device0", "d",
		},
		{
			"multi byte name",
			Profile{Name: "Ünye"},
			"Ünye", "Ü",
		},
		{
			"multi byte server",
			Profile{Server: "østfold"},
			"østfold", "ø",
		},
		{
			"placeholder",
			Profile{},
			"Unknown Profile", "U",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, logo := tt.profile.FormatedNameLogo()
			if name != tt.expectedName {
				t.Errorf("name = %q, want %q", name, tt.expectedName)
			}
			if logo != tt.expectedLogo {
				t.Errorf("logo = %q, want %q", logo, tt.expectedLogo)
			}
		})
	}
}

func TestExport(t *testing.T) {
	p := &Profile{
		Name:      "Office",
		Status:    StatusConnecting,
		Autostart: true,
	}

	export := p.Export()

	if export.Status != "Connecting" {
		t.Errorf("Status = %q, want Connecting", export.Status)
	}
	if export.ServerAddr != "-" || export.ClientAddr != "-" {
		t.Errorf("blank addresses not defaulted: %q %q",
			export.ServerAddr, export.ClientAddr)
	}
	if export.Autostart != "On" {
		t.Errorf("Autostart = %q, want On", export.Autostart)
	}
	if export.LogoColor == "" {
		t.Error("LogoColor should resolve to a palette entry")
	}

	// The color derives only from the display name.
	if again := p.Export(); again.LogoColor != export.LogoColor {
		t.Errorf("LogoColor not stable: %q vs %q",
			again.LogoColor, export.LogoColor)
	}
}

func TestExport_StatusLabels(t *testing.T) {
	tests := []struct {
		status   string
		expected string
	}{
		{StatusDisconnected, "Disconnected"},
		{StatusConnecting, "Connecting"},
		{StatusReconnecting, "Reconnecting"},
		{StatusDisconnecting, "Disconnecting"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			p := &Profile{Status: tt.status}
			if got := p.Export().Status; got != tt.expected {
				t.Errorf("Status = %q, want %q", got, tt.expected)
			}
		})
	}
}
