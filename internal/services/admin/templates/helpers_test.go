package templates

import (
	"errors"
	"testing"

	"golang.org/x/text/message"

	apperrors "github.com/louisbranch/autofix/internal/platform/errors"
)

type fakeLocalizer struct {
	value string
}

func (f fakeLocalizer) Sprintf(key message.Reference, args ...any) string {
	return f.value
}

// echoLocalizer renders keys as "[key]" so tests can assert placement.
type echoLocalizer struct{}

func (echoLocalizer) Sprintf(key message.Reference, args ...any) string {
	if s, ok := key.(string); ok {
		return "[" + s + "]"
	}
	return ""
}

func TestTranslateFallback(t *testing.T) {
	if T(nil, "hello") != "hello" {
		t.Fatal("expected key fallback")
	}

	if T(nil, message.Reference(123)) != "" {
		t.Fatal("expected empty string for non-string key")
	}
}

func TestTranslateLocalizer(t *testing.T) {
	loc := fakeLocalizer{value: "translated"}
	if T(loc, "hello") != "translated" {
		t.Fatal("expected translated value")
	}
}

func TestErrorText(t *testing.T) {
	loc := echoLocalizer{}
	if ErrorText(loc, nil) != "" {
		t.Fatal("expected empty text for nil error")
	}
	keyed := apperrors.EK(apperrors.KindConflict, "vehicles.error.plate_taken", "taken")
	if got := ErrorText(loc, keyed); got != "[vehicles.error.plate_taken]" {
		t.Fatalf("ErrorText = %q", got)
	}
	if got := ErrorText(loc, errors.New("raw")); got != "[core.error.title]" {
		t.Fatalf("ErrorText = %q", got)
	}
}
