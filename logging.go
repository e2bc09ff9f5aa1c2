package main

import (
	"context"
	"net/http"
	"time"
)

type loggerContextKey struct{}

// WithContext attaches the logger to a context so the free Log* helpers can
// find it anywhere downstream.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, l)
}

// loggerFromContext extracts the logger, falling back to a quiet default so
// callers never have to nil-check.
func loggerFromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerContextKey{}).(*Logger); ok {
		return l
	}
	return NewLogger(false)
}

func LogInfo(ctx context.Context, format string, args ...interface{}) {
	loggerFromContext(ctx).Info(format, args...)
}

func LogInfoSuccess(ctx context.Context, format string, args ...interface{}) {
	loggerFromContext(ctx).InfoSuccess(format, args...)
}

func LogInfoUpdate(ctx context.Context, title, detail string) {
	loggerFromContext(ctx).InfoUpdate(title, detail)
}

func LogWarn(ctx context.Context, format string, args ...interface{}) {
	loggerFromContext(ctx).Warn(format, args...)
}

func LogError(ctx context.Context, format string, args ...interface{}) {
	loggerFromContext(ctx).Error(format, args...)
}

func LogDebug(ctx context.Context, format string, args ...interface{}) {
	loggerFromContext(ctx).Debug(format, args...)
}

func LogDebugHTTP(ctx context.Context, format string, args ...interface{}) {
	loggerFromContext(ctx).DebugHTTP(format, args...)
}

func LogStage(ctx context.Context, format string, args ...interface{}) {
	loggerFromContext(ctx).Stage(format, args...)
}

func LogProgress(ctx context.Context, current, total int, status string) {
	loggerFromContext(ctx).Progress(current, total, status)
}

// loggingRoundTripper wraps an http.RoundTripper and logs HTTP requests/responses in verbose mode.
type loggingRoundTripper struct {
	base http.RoundTripper
}

// newLoggingRoundTripper creates a new logging round tripper.
func newLoggingRoundTripper(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		return &loggingRoundTripper{base: http.DefaultTransport}
	}
	return &loggingRoundTripper{base: base}
}

// RoundTrip executes a single HTTP transaction and logs the request/response.
func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	if *verbose {
		LogDebugHTTP(ctx, "%s %s", req.Method, req.URL)
		start := time.Now()

		resp, err := l.base.RoundTrip(req)
		elapsed := time.Since(start)

		if err != nil {
			LogDebugHTTP(ctx, "%s %s failed: %v (took %v)", req.Method, req.URL, err, elapsed)
			return nil, err
		}

		LogDebugHTTP(ctx, "%s %s -> %d (took %v)", req.Method, req.URL, resp.StatusCode, elapsed)
		return resp, nil
	}

	return l.base.RoundTrip(req)
}
