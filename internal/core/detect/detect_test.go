package detect

import (
	"strings"
	"testing"

	"codewarden/internal/core/patterns"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	pack, err := patterns.Load()
	if err != nil {
		t.Fatalf("load patterns: %v", err)
	}
	return New(pack)
}

func TestNoMatchesScoresZero(t *testing.T) {
	e := newEngine(t)
	v := e.Classify("good morning everyone, lovely weather today", SourceText)
	if v.Confidence != 0 {
		t.Fatalf("confidence = %v want exactly 0", v.Confidence)
	}
	if v.IsCode {
		t.Fatalf("is_code true for prose")
	}
	if len(v.Matched) != 0 {
		t.Fatalf("matched = %v want none", v.Matched)
	}
}

func TestShortInputScoresZero(t *testing.T) {
	e := newEngine(t)
	if v := e.Classify("x=1", SourceText); v.Confidence != 0 || v.IsCode {
		t.Fatalf("short input verdict = %+v", v)
	}
	if v := e.Classify("   \n\t  ", SourceText); v.Confidence != 0 {
		t.Fatalf("blank input verdict = %+v", v)
	}
}

func TestCanonicalSnippetIsCode(t *testing.T) {
	e := newEngine(t)
	v := e.Classify("def foo():\n    return 1", SourceText)
	if !v.IsCode {
		t.Fatalf("canonical function snippet not flagged, verdict = %+v", v)
	}
	if v.Confidence < e.Threshold() {
		t.Fatalf("confidence %v below threshold %v", v.Confidence, e.Threshold())
	}
	if v.Source != SourceText {
		t.Fatalf("source = %q", v.Source)
	}
}

func TestMultiLanguageSnippets(t *testing.T) {
	e := newEngine(t)
	cases := map[string]string{
		"go":   "func sum(xs []int) int {\n\ttotal := 0\n\tfor _, x := range xs {\n\t\ttotal += x\n\t}\n\treturn total\n}",
		"js":   "const add = (a, b) => {\n  console.log(a + b);\n  return a + b;\n};",
		"java": "public static void main(String[] args) {\n    System.out.println(\"hi\");\n}",
		"sql":  "SELECT id, name FROM users WHERE active = 1;\nINSERT INTO sessions (user_id, token) VALUES (42, 'abc');",
		"py":   "class Config:\n    def __init__(self):\n        self.debug = load(\"cfg\")",
	}
	for name, src := range cases {
		if v := e.Classify(src, SourceText); !v.IsCode {
			t.Errorf("%s snippet not flagged, verdict = %+v", name, v)
		}
	}
}

func TestProseStaysBelowThreshold(t *testing.T) {
	e := newEngine(t)
	cases := []string{
		"has anyone tried the new pizza place around the corner? it was great",
		"i think we should meet tomorrow if that works for everyone",
		"thanks for the help yesterday, really appreciate it",
		"what do you think about moving the session to thursday evening",
	}
	for _, s := range cases {
		if v := e.Classify(s, SourceText); v.IsCode {
			t.Errorf("prose flagged as code: %q verdict = %+v", s, v)
		}
	}
}

func TestMoreEvidenceNeverLowersConfidence(t *testing.T) {
	e := newEngine(t)
	base := "import os\n"
	prev := 0.0
	for i := 1; i <= 5; i++ {
		text := strings.Repeat(base, i) + "def run():\n    return os.name"
		v := e.Classify(text, SourceText)
		if v.Confidence+1e-9 < prev {
			t.Fatalf("confidence dropped from %v to %v at %d repeats", prev, v.Confidence, i)
		}
		prev = v.Confidence
	}
}

func TestConfidenceIsClamped(t *testing.T) {
	e := newEngine(t)
	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteString("public static int add(int a, int b) { return a + b; }\n")
		sb.WriteString("import java.util.List;\n    x = compute(a, b);\n")
	}
	v := e.Classify(sb.String(), SourceText)
	if v.Confidence > 1 {
		t.Fatalf("confidence = %v exceeds 1", v.Confidence)
	}
	if !v.IsCode {
		t.Fatalf("massive snippet not flagged")
	}
}

func TestCrossKindCorroboration(t *testing.T) {
	pack, err := patterns.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	e := New(pack)

	// keyword evidence only
	single := e.Classify("return the book to the library tomorrow morning", SourceText)
	// same keyword rule plus syntax and structure
	multi := e.Classify("    return compute(a, b);", SourceText)
	if multi.Confidence <= single.Confidence {
		t.Fatalf("corroborated %v <= single-kind %v", multi.Confidence, single.Confidence)
	}
}

func TestDampenerPullsConversationDown(t *testing.T) {
	e := newEngine(t)
	with := e.Classify("can you help, i think the answer is print(x) maybe", SourceText)
	without := e.Classify("the answer is print(x) maybe", SourceText)
	if with.Confidence >= without.Confidence {
		t.Fatalf("dampened %v >= plain %v", with.Confidence, without.Confidence)
	}
}

func TestCustomThreshold(t *testing.T) {
	pack, err := patterns.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	strict := NewWithOptions(pack, Options{Threshold: 0.95})
	v := strict.Classify("def foo():\n    return 1", SourceText)
	if v.IsCode && v.Confidence < 0.95 {
		t.Fatalf("threshold not honored: %+v", v)
	}
	if strict.Threshold() != 0.95 {
		t.Fatalf("threshold = %v", strict.Threshold())
	}
}
