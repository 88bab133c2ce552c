package config

import (
	"testing"
	"time"

	"codewarden/internal/platform/testkit"
)

func TestPrefixComposes(t *testing.T) {
	t.Setenv("WARDEN_SUB_KEY", "v")
	c := New().Prefix("WARDEN_").Prefix("SUB_")
	if got := c.MayString("KEY", ""); got != "v" {
		t.Fatalf("got %q", got)
	}
}

func TestMayDefaults(t *testing.T) {
	c := New().Prefix("CODEWARDEN_TEST_")

	if got := c.MayString("MISSING", "fallback"); got != "fallback" {
		t.Fatalf("MayString = %q", got)
	}
	if got := c.MayInt("MISSING", 7); got != 7 {
		t.Fatalf("MayInt = %d", got)
	}
	if got := c.MayBool("MISSING", true); !got {
		t.Fatalf("MayBool = %v", got)
	}
	if got := c.MayFloat("MISSING", 0.5); got != 0.5 {
		t.Fatalf("MayFloat = %v", got)
	}
	if got := c.MayDuration("MISSING", time.Hour); got != time.Hour {
		t.Fatalf("MayDuration = %v", got)
	}
}

func TestMayParsesValues(t *testing.T) {
	t.Setenv("CODEWARDEN_TEST_N", "42")
	t.Setenv("CODEWARDEN_TEST_B", "true")
	t.Setenv("CODEWARDEN_TEST_F", "0.35")
	t.Setenv("CODEWARDEN_TEST_D", "720h")
	c := New().Prefix("CODEWARDEN_TEST_")

	if got := c.MayInt("N", 0); got != 42 {
		t.Fatalf("MayInt = %d", got)
	}
	if got := c.MayBool("B", false); !got {
		t.Fatalf("MayBool = %v", got)
	}
	if got := c.MayFloat("F", 0); got != 0.35 {
		t.Fatalf("MayFloat = %v", got)
	}
	if got := c.MayDuration("D", 0); got != 720*time.Hour {
		t.Fatalf("MayDuration = %v", got)
	}
}

func TestMayCSV(t *testing.T) {
	t.Setenv("CODEWARDEN_TEST_ROLES", "bot-dev, staff ,, mods")
	c := New().Prefix("CODEWARDEN_TEST_")

	got := c.MayCSV("ROLES")
	want := []string{"bot-dev", "staff", "mods"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
	if got := c.MayCSV("MISSING"); got != nil {
		t.Fatalf("missing csv = %v want nil", got)
	}
}

func TestMustStringPanics(t *testing.T) {
	c := New().Prefix("CODEWARDEN_TEST_")
	testkit.MustPanic(t, func() { c.MustString("NEVER_SET_ANYWHERE") })
}
