package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/pders01/slyde/internal/config"
)

func TestBannerString(t *testing.T) {
	tests := []struct {
		version string
		want    string
		absent  string
	}{
		{version: "1.2.0", want: "v1.2.0"},
		{version: "v0.3.1", want: "v0.3.1", absent: "vv0.3.1"},
		{version: "dev", absent: "dev"},
		{version: "", want: "Architecture slideshows in your terminal"},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			banner := BannerString(tt.version)
			assert.Contains(t, banner, "Architecture slideshows in your terminal")
			assert.Contains(t, banner, "╔")
			assert.Contains(t, banner, "◆")
			if tt.want != "" {
				assert.Contains(t, banner, tt.want)
			}
			if tt.absent != "" {
				assert.NotContains(t, banner, tt.absent)
			}
		})
	}
}

func TestGetWelcomeMessage(t *testing.T) {
	msg := GetWelcomeMessage("ctrl")
	assert.Contains(t, msg, "ctrl+r: recents")
	assert.Contains(t, msg, "ctrl+f: favorites")
	assert.Contains(t, msg, strings.TrimSpace(LogoLines[0]))

	assert.Contains(t, GetWelcomeMessage("alt"), "alt+r: recents")
}

func TestApplyColors(t *testing.T) {
	saved := []lipgloss.Color{PrimaryColor, ErrorColor, MutedColor}
	t.Cleanup(func() {
		PrimaryColor, ErrorColor, MutedColor = saved[0], saved[1], saved[2]
		buildStyles()
	})

	ApplyColors(config.UIColors{Primary: "#000000", Error: "#111111"})
	assert.Equal(t, lipgloss.Color("#000000"), PrimaryColor)
	assert.Equal(t, lipgloss.Color("#111111"), ErrorColor)
	assert.Equal(t, saved[2], MutedColor, "empty values keep the default")
	assert.Equal(t, lipgloss.Color("#111111"), StatusErrorStyle.GetForeground())
}
