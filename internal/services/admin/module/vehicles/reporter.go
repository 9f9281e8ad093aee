package vehicles

import (
	"context"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/louisbranch/autofix/internal/platform/errors"
)

// Outcome names a list view result worth reporting.
type Outcome string

const (
	OutcomeListed       Outcome = "listed"
	OutcomeListFailed   Outcome = "list_failed"
	OutcomeDeleted      Outcome = "deleted"
	OutcomeDeleteFailed Outcome = "delete_failed"
)

// Report describes one list view outcome.
type Report struct {
	Outcome   Outcome
	VehicleID int64
	Count     int
	Err       error
}

// Reporter is the observability sink of the list view. Failures reach only
// the reporter; the UI does not surface them.
type Reporter interface {
	Report(ctx context.Context, report Report)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(ctx context.Context, report Report)

// Report calls f(ctx, report).
func (f ReporterFunc) Report(ctx context.Context, report Report) {
	f(ctx, report)
}

var outcomeMessages = map[Outcome]string{
	OutcomeListed:       "Mostrando listado de todos los vehículos.",
	OutcomeListFailed:   "Se ha producido un error al mostrar los vehículos.",
	OutcomeDeleted:      "Vehículo eliminado.",
	OutcomeDeleteFailed: "Error al eliminar el vehículo",
}

// Message returns the log line for an outcome.
func Message(outcome Outcome) string {
	if msg, ok := outcomeMessages[outcome]; ok {
		return msg
	}
	return string(outcome)
}

// LogReporter logs outcomes and annotates the active span.
type LogReporter struct{}

// Report implements Reporter.
func (LogReporter) Report(ctx context.Context, report Report) {
	fields := log.Fields{"operation": string(report.Outcome)}
	if report.VehicleID != 0 {
		fields["vehicle_id"] = report.VehicleID
	}
	span := trace.SpanFromContext(ctx)
	span.AddEvent(string(report.Outcome), trace.WithAttributes(
		attribute.Int64("vehicle.id", report.VehicleID),
		attribute.Int("vehicle.count", report.Count),
	))

	entry := log.WithContext(ctx).WithFields(fields)
	if report.Err == nil {
		if report.Outcome == OutcomeListed {
			entry = entry.WithField("count", report.Count)
		}
		entry.Info(Message(report.Outcome))
		return
	}
	kind := apperrors.KindOf(report.Err)
	span.RecordError(report.Err)
	span.SetStatus(codes.Error, Message(report.Outcome))
	entry.WithFields(log.Fields{"error_kind": string(kind), log.ErrorKey: report.Err}).Error(Message(report.Outcome))
}
