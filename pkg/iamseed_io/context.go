// pkg/iamseed_io/context.go

package iamseed_io

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/iamseed_err"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/telemetry"
	cerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type RuntimeContext struct {
	Ctx        context.Context
	Log        *zap.Logger
	Timestamp  time.Time
	Span       trace.Span
	Command    string
	RunID      string
	Attributes map[string]string

	stop context.CancelFunc
}

// NewContext sets up tracing and logging for one command invocation.
// The returned context is cancelled on SIGINT so in-flight HTTP calls and prompts unwind.
func NewContext(parent context.Context, cmdName string) *RuntimeContext {
	if parent == nil {
		parent = context.Background()
	}
	sigCtx, stop := signal.NotifyContext(parent, os.Interrupt)
	ctx, span := telemetry.Start(sigCtx, cmdName)

	runID := logger.GenerateTraceID()
	log := logger.L().With(
		zap.String("command", cmdName),
		zap.String("run_id", runID),
	).Named(cmdName)

	return &RuntimeContext{
		Ctx:        ctx,
		Span:       span,
		Log:        log,
		Timestamp:  time.Now(),
		Command:    cmdName,
		RunID:      runID,
		Attributes: make(map[string]string),
		stop:       stop,
	}
}

// End logs outcome, records span status and attributes, and releases the signal handler.
func (rc *RuntimeContext) End(errPtr *error) {
	defer rc.stop()
	defer rc.Span.End()

	var err error
	if errPtr != nil {
		err = *errPtr
	}
	duration := time.Since(rc.Timestamp)

	switch {
	case err == nil:
		rc.Log.Info("Command completed", zap.Duration("duration", duration))
	case iamseed_err.IsExpectedUserError(err):
		rc.Log.Warn("Command finished with user error", zap.Duration("duration", duration), zap.Error(err))
	default:
		rc.Log.Error("Command failed", zap.Duration("duration", duration), zap.Error(err))
		rc.Span.RecordError(err)
		rc.Span.SetStatus(codes.Error, err.Error())
	}

	attrs := []attribute.KeyValue{
		attribute.Bool("success", err == nil),
		attribute.Int64("duration_ms", duration.Milliseconds()),
		attribute.String("os", runtime.GOOS),
		attribute.String("run_id", rc.RunID),
		attribute.String("error_type", classifyError(err)),
	}
	for k, v := range rc.Attributes {
		attrs = append(attrs, attribute.String(k, v))
	}
	rc.Span.SetAttributes(attrs...)
}

// HandlePanic recovers panics, logs them, and converts to an error.
func (rc *RuntimeContext) HandlePanic(errPtr *error) {
	if r := recover(); r != nil {
		*errPtr = iamseed_err.NewInternalError("panic recovered", cerr.AssertionFailedf("panic: %v", r))
		rc.Log.Error("Panic recovered", zap.Any("panic", r), zap.Stack("stack"))
	}
}

func classifyError(err error) string {
	if err == nil {
		return ""
	}
	if iamseed_err.IsExpectedUserError(err) {
		return "user"
	}
	return "system"
}
