package observability

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope used for lint spans
const TracerName = "github.com/platinummonkey/inclint"

// Tracer returns the tracer from the global provider
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}
