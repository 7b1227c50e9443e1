// Package logger はslogベースの構造化ロガーを提供する。
//
// 実行環境に応じてハンドラを切り替え、リクエストIDやユーザーIDなど
// リクエストスコープの値をログ属性として付与する。
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// contextKey はコンテキストキーの型。
type contextKey string

const (
	// contextKeyRequestID はコンテキストにリクエストIDを格納するためのキー。
	contextKeyRequestID contextKey = "request_id"
	// contextKeyUserID はコンテキストにユーザーIDを格納するためのキー。
	contextKeyUserID contextKey = "user_id"
)

// Logger はslog.Loggerをラップした構造化ロガー。
type Logger struct {
	*slog.Logger
}

// New は実行環境に応じたロガーを生成する。
// "development" の場合はテキスト形式でDEBUGレベルまで、それ以外はJSON形式でINFOレベル以上を出力する。
func New(env string) *Logger {
	return NewWithWriter(env, os.Stdout)
}

// NewWithWriter は出力先を指定してロガーを生成する。
func NewWithWriter(env string, w io.Writer) *Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler
	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return &Logger{Logger: slog.New(handler)}
}

// Discard は何も出力しないロガーを返す。テスト用。
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// OrDefault はnilの場合にslog.Default()を包んだロガーを返す。
// ロガーが注入されていなくてもログが黙って捨てられないようにする。
func OrDefault(l *Logger) *Logger {
	if l == nil || l.Logger == nil {
		return &Logger{Logger: slog.Default()}
	}
	return l
}

// WithRequestID はコンテキストにリクエストIDを設定する。
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID, requestID)
}

// WithUserID はコンテキストにユーザーIDを設定する。
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKeyUserID, userID)
}

// RequestID はコンテキストからリクエストIDを取得する。
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(contextKeyRequestID).(string)
	return id
}

// UserID はコンテキストからユーザーIDを取得する。
func UserID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(contextKeyUserID).(string)
	return id
}

// WithContext はコンテキストに含まれるリクエストID・ユーザーIDを属性に持つロガーを返す。
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	next := l
	if requestID := RequestID(ctx); requestID != "" {
		next = &Logger{Logger: next.With(slog.String("request_id", requestID))}
	}
	if userID := UserID(ctx); userID != "" {
		next = &Logger{Logger: next.With(slog.String("user_id", userID))}
	}
	return next
}

// HTTPRequest はHTTPアクセスログを出力する。
func (l *Logger) HTTPRequest(ctx context.Context, method, path string, status int, latencyMs float64, clientIP string) {
	l.WithContext(ctx).Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

// AuthEvent は認証イベントを出力する。失敗時はWARNレベルで理由を含める。
func (l *Logger) AuthEvent(ctx context.Context, event, email string, success bool, reason string) {
	if success {
		l.WithContext(ctx).Info("auth_event",
			slog.String("event", event),
			slog.String("email", email),
			slog.Bool("success", true),
		)
		return
	}
	l.WithContext(ctx).Warn("auth_event",
		slog.String("event", event),
		slog.Bool("success", false),
		slog.String("reason", reason),
	)
}

// RateLimitExceeded はレート制限超過を出力する。
func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.Warn("rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}
