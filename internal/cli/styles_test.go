package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatHelpers(t *testing.T) {
	tests := []struct {
		name    string
		format  func(string) string
		icon    string
		message string
	}{
		{"success", FormatSuccess, SuccessIcon, "notes written"},
		{"error", FormatError, ErrorIcon, "could not open run history"},
		{"warning", FormatWarning, WarningIcon, "degraded: backend unreachable"},
		{"title", FormatTitle, NotesIcon, "Confirm meeting type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.format(tt.message)
			assert.Contains(t, got, tt.icon)
			assert.Contains(t, got, tt.message)
		})
	}
}
