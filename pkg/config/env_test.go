package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestGetEnvString(t *testing.T) {
	t.Setenv("TEST_STR", "value")
	if got := GetEnvString("TEST_STR", "fallback"); got != "value" {
		t.Errorf("got %q", got)
	}
	t.Setenv("TEST_STR", "")
	if got := GetEnvString("TEST_STR", "fallback"); got != "fallback" {
		t.Errorf("got %q, want fallback", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"valid", "42", 42},
		{"negative", "-7", -7},
		{"empty", "", 10},
		{"garbage", "forty-two", 10},
		{"float", "4.2", 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_INT", tt.value)
			if got := GetEnvInt("TEST_INT", 10); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"1", true},
		{"t", true},
		{"false", false},
		{"0", false},
		{"", true},
		{"yes", true}, // unparseable, falls back to default
	}
	for _, tt := range tests {
		t.Setenv("TEST_BOOL", tt.value)
		if got := GetEnvBool("TEST_BOOL", true); got != tt.want {
			t.Errorf("GetEnvBool(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"30s", 30 * time.Second},
		{"1h30m", 90 * time.Minute},
		{"", 5 * time.Minute},
		{"fast", 5 * time.Minute},
		{"30", 5 * time.Minute}, // bare numbers are not durations
	}
	for _, tt := range tests {
		t.Setenv("TEST_DUR", tt.value)
		if got := GetEnvDuration("TEST_DUR", 5*time.Minute); got != tt.want {
			t.Errorf("GetEnvDuration(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestGetEnvStringList(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"simple", "a,b,c", []string{"a", "b", "c"}},
		{"trimmed", " a , b ", []string{"a", "b"}},
		{"empty entries dropped", "a,,b,", []string{"a", "b"}},
		{"unset", "", []string{"x"}},
		{"only separators", ",,,", []string{"x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_LIST", tt.value)
			got := GetEnvStringList("TEST_LIST", []string{"x"})
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidatePositiveDuration(t *testing.T) {
	if err := ValidatePositiveDuration(time.Second); err != nil {
		t.Errorf("positive duration rejected: %v", err)
	}
	if err := ValidatePositiveDuration(0); err == nil {
		t.Error("zero duration accepted")
	}
	if err := ValidatePositiveDuration(-time.Second); err == nil {
		t.Error("negative duration accepted")
	}
}

func TestValidateDurationRange(t *testing.T) {
	if err := ValidateDurationRange(time.Minute, time.Second, time.Hour); err != nil {
		t.Errorf("in-range duration rejected: %v", err)
	}
	if err := ValidateDurationRange(time.Millisecond, time.Second, time.Hour); err == nil {
		t.Error("below-minimum duration accepted")
	}
	if err := ValidateDurationRange(2*time.Hour, time.Second, time.Hour); err == nil {
		t.Error("above-maximum duration accepted")
	}
	if err := ValidateDurationRange(time.Minute, time.Hour, time.Second); err == nil {
		t.Error("inverted range accepted")
	}
}
