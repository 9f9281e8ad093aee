package vehicles

import (
	"context"
	"errors"
	"testing"

	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	apperrors "github.com/louisbranch/autofix/internal/platform/errors"
)

func TestMessageUsesOriginalWording(t *testing.T) {
	t.Parallel()

	tests := map[Outcome]string{
		OutcomeListed:       "Mostrando listado de todos los vehículos.",
		OutcomeListFailed:   "Se ha producido un error al mostrar los vehículos.",
		OutcomeDeleted:      "Vehículo eliminado.",
		OutcomeDeleteFailed: "Error al eliminar el vehículo",
		Outcome("other"):    "other",
	}
	for outcome, want := range tests {
		if got := Message(outcome); got != want {
			t.Fatalf("Message(%q) = %q, want %q", outcome, got, want)
		}
	}
}

// Not parallel: swaps the standard logger's hooks.
func TestLogReporterLogsAndAnnotatesSpan(t *testing.T) {
	hook := logtest.NewGlobal()
	t.Cleanup(func() { log.StandardLogger().ReplaceHooks(make(log.LevelHooks)) })

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	ctx, span := provider.Tracer("test").Start(context.Background(), "request")
	reporter := LogReporter{}
	reporter.Report(ctx, Report{Outcome: OutcomeListed, Count: 3})
	reporter.Report(ctx, Report{
		Outcome:   OutcomeDeleteFailed,
		VehicleID: 9,
		Err:       apperrors.Wrap(apperrors.KindNotFound, "remove", errors.New("404")),
	})
	span.End()

	entries := hook.AllEntries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	if entries[0].Level != log.InfoLevel || entries[0].Message != Message(OutcomeListed) {
		t.Fatalf("unexpected first entry %v %q", entries[0].Level, entries[0].Message)
	}
	if entries[0].Data["count"] != 3 {
		t.Fatalf("expected count field, got %v", entries[0].Data)
	}
	failed := entries[1]
	if failed.Level != log.ErrorLevel || failed.Message != Message(OutcomeDeleteFailed) {
		t.Fatalf("unexpected failure entry %v %q", failed.Level, failed.Message)
	}
	if failed.Data["vehicle_id"] != int64(9) || failed.Data["error_kind"] != "not_found" {
		t.Fatalf("unexpected failure fields %v", failed.Data)
	}

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	// listed + delete_failed + exception
	if got := len(spans[0].Events()); got != 3 {
		t.Fatalf("expected 3 span events, got %d", got)
	}
}
