package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestNewFromRegistry(t *testing.T) {
	err := New("E101")
	if err.Code != "E101" {
		t.Errorf("Code = %q, want E101", err.Code)
	}
	if err.Category != CategoryConfig {
		t.Errorf("Category = %q, want config", err.Category)
	}
	if err.Message == "" || err.Detail == "" {
		t.Error("registered errors should carry message and detail")
	}
}

func TestNewUnknownCode(t *testing.T) {
	err := New("E999")
	if err.Code != "E999" {
		t.Errorf("Code = %q, want E999", err.Code)
	}
	if err.Message != "Unknown error" {
		t.Errorf("Message = %q, want Unknown error", err.Message)
	}
}

func TestErrorString(t *testing.T) {
	err := New("E201")
	if got := err.Error(); !strings.HasPrefix(got, "E201: ") {
		t.Errorf("Error() = %q, want E201 prefix", got)
	}

	plain := Newf(CategoryCLI, "bad flag %q", "--x")
	if got := plain.Error(); got != `bad flag "--x"` {
		t.Errorf("Error() = %q", got)
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := New("E202").Wrap(cause)

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should see the wrapped cause")
	}

	var re *ReactiveError
	if !stderrors.As(err, &re) {
		t.Error("errors.As should match ReactiveError")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E102") != nil {
		t.Error("FromError(nil) should be nil")
	}

	re := New("E103")
	if FromError(re, "E102") != re {
		t.Error("FromError should pass ReactiveError through unchanged")
	}

	wrapped := FromError(stderrors.New("boom"), "E102")
	if wrapped.Code != "E102" {
		t.Errorf("Code = %q, want E102", wrapped.Code)
	}
	if wrapped.Wrapped == nil {
		t.Error("expected the original error to be wrapped")
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E101").
		WithDetail("No reactive.json found in /tmp/project").
		WithSuggestion("Run 'reactive init' to create one").
		Wrap(stderrors.New("stat failed"))

	out := err.Format()
	for _, want := range []string{"ERROR E101:", "No reactive.json found", "Hint: Run 'reactive init'", "Cause: stat failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("E301")
	got := err.FormatCompact()
	if !strings.HasPrefix(got, "E301: ") {
		t.Errorf("FormatCompact() = %q", got)
	}
	if strings.Contains(got, "\n") {
		t.Error("compact format should be single line")
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("aaa bbb ccc ddd", 7)
	if len(lines) < 2 {
		t.Fatalf("expected wrapping, got %v", lines)
	}
	for _, l := range lines {
		if len(l) > 7 {
			t.Errorf("line %q exceeds width", l)
		}
	}
}
