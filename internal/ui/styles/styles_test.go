// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package styles

import (
	"strings"
	"testing"
)

func TestNewTheme(t *testing.T) {
	theme := NewTheme()
	if theme == nil {
		t.Fatal("nil theme")
	}
	// Styles must be usable immediately.
	out := theme.UserBubble.Render("hello")
	if !strings.Contains(out, "hello") {
		t.Errorf("render lost content: %q", out)
	}
}

func TestNewThemeNamed(t *testing.T) {
	dark := NewThemeNamed("dark")
	if !dark.IsDark {
		t.Error("dark theme did not set IsDark")
	}
	light := NewThemeNamed("light")
	if light.IsDark {
		t.Error("light theme set IsDark")
	}
}

func TestThemeRebuild(t *testing.T) {
	theme := NewThemeNamed("light")
	theme.Rebuild("dark")
	if !theme.IsDark {
		t.Error("rebuild did not switch to dark")
	}
	out := theme.UserBubble.Render("hi")
	if !strings.Contains(out, "hi") {
		t.Errorf("render lost content after rebuild: %q", out)
	}
}

func TestThemeSetSize(t *testing.T) {
	theme := NewTheme()
	theme.SetSize(120, 40)
	if theme.Width != 120 || theme.Height != 40 {
		t.Errorf("size = %dx%d", theme.Width, theme.Height)
	}
}

func TestStatusRenderers(t *testing.T) {
	tests := []struct {
		render func(string) string
		shape  string
	}{
		{RenderSuccess, "[OK]"},
		{RenderError, "[X]"},
		{RenderWarning, "[!]"},
		{RenderInfo, "[i]"},
	}
	for _, tt := range tests {
		out := tt.render("msg")
		if !strings.Contains(out, tt.shape) {
			t.Errorf("output %q missing shape %q", out, tt.shape)
		}
		if !strings.Contains(out, "msg") {
			t.Errorf("output %q missing message", out)
		}
	}
}

func TestAdaptivePairsDiffer(t *testing.T) {
	// Light and dark variants should never be the same color.
	pairs := map[string][2]string{
		"Pink":    {Pink.Light, Pink.Dark},
		"Purple":  {Purple.Light, Purple.Dark},
		"Surface": {Surface.Light, Surface.Dark},
	}
	for name, p := range pairs {
		if p[0] == p[1] {
			t.Errorf("%s light == dark (%s)", name, p[0])
		}
	}
}
