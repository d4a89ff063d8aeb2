package profile

import (
	"slices"
	"testing"
)

func TestConfigComposition(t *testing.T) {
	base := Config(func() (string, string, bool) { return "", "", false })

	cfg := WithQuiet(true)(WithPath("/tmp/prof")(WithMode("cpu")(base)))

	mode, path, quiet := cfg()
	if mode != "cpu" || path != "/tmp/prof" || !quiet {
		t.Errorf("Expected (cpu, /tmp/prof, true), got (%s, %s, %v)", mode, path, quiet)
	}
}

func TestStartWithoutMode(t *testing.T) {
	cfg := Config(func() (string, string, bool) { return "", "", false })

	// Must be a no-op that is safe to stop.
	cfg.Start().Stop()
}

func TestStartUnknownMode(t *testing.T) {
	cfg := Config(func() (string, string, bool) { return "bogus", "", true })

	cfg.Start().Stop()
}

func TestModes(t *testing.T) {
	modes := Modes()

	if !slices.IsSorted(modes) {
		t.Errorf("Expected sorted modes, got %v", modes)
	}

	for _, want := range []string{"cpu", "mem", "trace"} {
		if !slices.Contains(modes, want) {
			t.Errorf("Expected mode %s in %v", want, modes)
		}
	}
}
