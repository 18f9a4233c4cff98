package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Getting Started", "getting-started"},
		{"  Spaces   everywhere  ", "spaces-everywhere"},
		{"Wstęp do łańcuchów", "wstep-do-lancuchow"},
		{"Część 1: Pętle & tablice!", "czesc-1-petle-tablice"},
		{"already-a-slug", "already-a-slug"},
		{"dash -- runs --- collapse", "dash-runs-collapse"},
		{"ŻÓŁĆ", "zolc"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GenerateSlug(tt.title), "title %q", tt.title)
	}
}
