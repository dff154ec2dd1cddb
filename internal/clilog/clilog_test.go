package clilog

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestParseColor(t *testing.T) {
	cases := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"auto", ColorAuto, false},
		{"", ColorAuto, false},
		{"always", ColorAlways, false},
		{"never", ColorNever, false},
		{"sometimes", ColorAuto, true},
	}
	for _, c := range cases {
		got, err := ParseColor(c.in)
		if (err != nil) != c.wantErr {
			t.Errorf("ParseColor(%q): err=%v, wantErr=%v", c.in, err, c.wantErr)
		}
		if got != c.want {
			t.Errorf("ParseColor(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestLevelFor(t *testing.T) {
	cases := []struct {
		verbosity int
		want      logrus.Level
	}{
		{0, logrus.WarnLevel},
		{1, logrus.InfoLevel},
		{2, logrus.DebugLevel},
		{3, logrus.TraceLevel},
		{10, logrus.TraceLevel},
	}
	for _, c := range cases {
		if got := levelFor(c.verbosity); got != c.want {
			t.Errorf("levelFor(%d) = %v, want %v", c.verbosity, got, c.want)
		}
	}
}

func TestNew_RespectsVerbosityAndColor(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, 2, ColorNever)
	if log.GetLevel() != logrus.DebugLevel {
		t.Errorf("got level %v, want Debug", log.GetLevel())
	}
	tf, ok := log.Formatter.(*logrus.TextFormatter)
	if !ok || !tf.DisableColors {
		t.Errorf("expected colors disabled for ColorNever, got %#v", log.Formatter)
	}
}

func TestShouldColor_NonFileWriterDefaultsToNoColorOnAuto(t *testing.T) {
	var buf bytes.Buffer
	if shouldColor(&buf, ColorAuto) {
		t.Error("a non-*os.File writer should not be auto-colored")
	}
	if !shouldColor(&buf, ColorAlways) {
		t.Error("ColorAlways should force color regardless of writer")
	}
}
