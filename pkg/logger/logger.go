// Package logger provides the structured slog logger shared by the service.
//
// WithCtx returns the request-scoped logger injected by the HTTP Logger
// middleware, so lines from handlers and services carry the request_id:
//
//	log := logger.WithCtx(ctx)
//	log.Info("lead stored", "lead_id", lead.ID)
//	// → time=... level=INFO msg="lead stored" request_id=8f0c... lead_id=12
package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/sudeviagro/backoffice/config"
)

var L *slog.Logger

var activeSink *MongoHandler

func init() {
	L = slog.New(baseHandler())
	slog.SetDefault(L)
}

func baseHandler() slog.Handler {
	if config.IsProduction() {
		return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
}

// Setup attaches the optional MongoDB sink when LOG_MONGO_URI is set.
// Stdout logging keeps working if Mongo is unreachable.
func Setup() error {
	uri := config.LogMongoURI()
	if uri == "" {
		return nil
	}

	h, err := NewMongoHandler(uri, config.LogMongoDB(), config.LogMongoColl())
	if err != nil {
		return err
	}
	activeSink = h
	L = slog.New(NewMultiHandler(baseHandler(), h))
	slog.SetDefault(L)
	return nil
}

// Close flushes the Mongo sink, if any.
func Close() {
	if activeSink != nil {
		activeSink.Close()
		activeSink = nil
	}
}

type ctxKey struct{}

// WithCtx returns the logger stored in ctx by InjectLogger, or the base logger.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return L
	}
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return L
}

// InjectLogger stores a pre-tagged logger in ctx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { L.Debug(msg, args...) }
func Info(msg string, args ...any)  { L.Info(msg, args...) }
func Warn(msg string, args ...any)  { L.Warn(msg, args...) }
func Error(msg string, args ...any) { L.Error(msg, args...) }
