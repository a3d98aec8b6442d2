package cli

import (
	"reflect"
	"testing"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"svg,png", []string{"svg", "png"}},
		{"json,dot,svg", []string{"json", "dot", "svg"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"derive from input", "", "scores/etude.toml", "scores/etude"},
		{"strip format extension", "out.svg", "etude.toml", "out"},
		{"keep custom extension", "out.music", "etude.toml", "out.music"},
		{"plain output", "out", "etude.toml", "out"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	// Explicit output honored for a single format
	if got := outputPath("out", "out.svg", "svg", 1); got != "out.svg" {
		t.Errorf("outputPath = %q, want out.svg", got)
	}

	// Multiple formats always derive from the base
	if got := outputPath("etude", "etude.svg", "png", 2); got != "etude.png" {
		t.Errorf("outputPath = %q, want etude.png", got)
	}

	// No explicit output derives from the base
	if got := outputPath("etude", "", "svg", 1); got != "etude.svg" {
		t.Errorf("outputPath = %q, want etude.svg", got)
	}
}
