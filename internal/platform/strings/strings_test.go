package strings

import "testing"

func TestIfEmpty(t *testing.T) {
	if got := IfEmpty([]string(nil), []string{"a"}); len(got) != 1 || got[0] != "a" {
		t.Fatalf("got %v", got)
	}
	if got := IfEmpty([]string{"x"}, []string{"a"}); len(got) != 1 || got[0] != "x" {
		t.Fatalf("got %v", got)
	}
}

func TestPtrDeref(t *testing.T) {
	p := Ptr("v")
	if *p != "v" {
		t.Fatalf("ptr = %q", *p)
	}
	if Deref(p) != "v" {
		t.Fatalf("deref = %q", Deref(p))
	}
	if Deref((*string)(nil)) != "" {
		t.Fatalf("nil deref should be zero")
	}
}

func TestSnippet(t *testing.T) {
	if got := Snippet("short", 10); got != "short" {
		t.Fatalf("got %q", got)
	}
	if got := Snippet("0123456789abcdef", 10); got != "0123456789..." {
		t.Fatalf("got %q", got)
	}
	// multibyte input must not be cut mid rune
	got := Snippet("héllo wörld, this is long énough", 10)
	for _, r := range got {
		if r == 0xFFFD {
			t.Fatalf("snippet broke a rune: %q", got)
		}
	}
}
