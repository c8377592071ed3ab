package logger

import (
	"testing"
)

func TestParseRequestLevel(t *testing.T) {
	cases := []struct {
		in   string
		want RequestLevel
	}{
		{"basic", RequestLevelBasic},
		{"HEADERS", RequestLevelHeaders},
		{" full ", RequestLevelFull},
		{"none", RequestLevelNone},
		{"", RequestLevelNone},
		{"bogus", RequestLevelNone},
	}
	for _, tc := range cases {
		if got := ParseRequestLevel(tc.in); got != tc.want {
			t.Errorf("ParseRequestLevel(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestRequestLevel_String(t *testing.T) {
	if RequestLevelHeaders.String() != "headers" {
		t.Errorf("unexpected name: %s", RequestLevelHeaders)
	}
	if RequestLevel(42).String() != "unknown" {
		t.Error("expected unknown for out-of-range level")
	}
}

func TestFields_BuildsMapFromPairs(t *testing.T) {
	m := Fields("client", "orders", "status", 200)
	if m["client"] != "orders" || m["status"] != 200 {
		t.Errorf("unexpected map: %v", m)
	}
}

func TestFields_IgnoresDanglingValue(t *testing.T) {
	m := Fields("client", "orders", "dangling")
	if len(m) != 1 {
		t.Errorf("expected 1 entry, got %d", len(m))
	}
}

func TestWithClient_TagsLogger(t *testing.T) {
	base := NewDefault("test")
	tagged := base.WithClient("orders")
	if tagged == nil || tagged == base {
		t.Error("expected a new tagged logger instance")
	}
}

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Level != "info" || cfg.Format != "console" || cfg.Output != "stdout" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}
