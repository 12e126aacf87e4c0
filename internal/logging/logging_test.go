package logging

import "testing"

func TestNew(t *testing.T) {
	tests := []struct {
		level, format string
		wantErr       bool
	}{
		{"info", "console", false},
		{"debug", "json", false},
		{"warn", "", false},
		{"loud", "console", true},
		{"info", "xml", true},
	}

	for _, tt := range tests {
		log, err := New(tt.level, tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("New(%q, %q) error = %v, wantErr %v", tt.level, tt.format, err, tt.wantErr)
			continue
		}
		if err == nil && log == nil {
			t.Errorf("New(%q, %q) returned nil logger", tt.level, tt.format)
		}
	}
}
