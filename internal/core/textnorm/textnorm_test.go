package textnorm

import "testing"

func TestNormalizeLineEndings(t *testing.T) {
	n := New()
	got := n.Normalize("def foo():\r\n    return 1\r\n")
	want := "def foo():\n    return 1"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestStripsZeroWidthCharacters(t *testing.T) {
	n := New()
	// zero-width space and joiner spliced into a keyword
	got := n.Normalize("im​po‍rt os")
	if got != "import os" {
		t.Fatalf("got %q want %q", got, "import os")
	}
}

func TestFoldsFullwidthForms(t *testing.T) {
	n := New()
	got := n.Normalize("ｉｍｐｏｒｔ os")
	if got != "import os" {
		t.Fatalf("got %q want %q", got, "import os")
	}
}

func TestPreservesIndentAndCase(t *testing.T) {
	n := New()
	in := "Class Foo:\n    DEF = 1"
	if got := n.Normalize(in); got != in {
		t.Fatalf("got %q want input unchanged %q", got, in)
	}
}

func TestTrimsTrailingWhitespacePerLine(t *testing.T) {
	n := New()
	got := n.Normalize("x = 1   \ny = 2\t\n")
	want := "x = 1\ny = 2"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestRepairsInvalidUTF8(t *testing.T) {
	n := New()
	if got := n.Normalize("ok\xff\xfeok"); got != "okok" {
		t.Fatalf("got %q want %q", got, "okok")
	}
}

func TestConcurrentUse(t *testing.T) {
	n := New()
	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				if n.Normalize("def foo():\r\n    return 1") == "" {
					t.Error("empty result")
					return
				}
			}
		}()
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
