package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

// TestHTTPStatus は分類ごとのHTTPステータスを検証する。
func TestHTTPStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *Error
		want int
	}{
		{name: "MissingCredential", err: MissingCredential(), want: http.StatusUnauthorized},
		{name: "InvalidOrExpiredCredential", err: InvalidOrExpiredCredential(errors.New("expired")), want: http.StatusUnauthorized},
		{name: "ValidationFailure", err: ValidationFailure([]string{"name should not be empty"}), want: http.StatusBadRequest},
		{name: "BadRequest", err: BadRequest("bad"), want: http.StatusBadRequest},
		{name: "NotFound", err: NotFound("missing"), want: http.StatusNotFound},
		{name: "TooManyRequests", err: New(KindTooManyRequests, "slow down"), want: http.StatusTooManyRequests},
		{name: "Forbidden", err: New(KindForbidden, "Origin not allowed"), want: http.StatusForbidden},
		{name: "UnhandledInternal", err: Internal("boom", nil), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.HTTPStatus(); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
			if got := tt.err.Kind.String(); got != tt.name {
				t.Errorf("Kind.String() = %q, want %q", got, tt.name)
			}
		})
	}
}

// TestAs はラップされたエラーから分類付きエラーを取り出せることを検証する。
func TestAs(t *testing.T) {
	t.Parallel()

	t.Run("ラップされたエラーから取り出せること", func(t *testing.T) {
		t.Parallel()

		err := fmt.Errorf("ハンドラで失敗: %w", NotFound("Product not found"))
		appErr, ok := As(err)
		if !ok {
			t.Fatal("As() = false, want true")
		}
		if appErr.Message != "Product not found" {
			t.Errorf("Message = %v", appErr.Message)
		}
		if appErr.Kind != KindNotFound {
			t.Errorf("Kind = %v, want NotFound", appErr.Kind)
		}
	})

	t.Run("原因のエラーをUnwrapできること", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("jwt expired")
		err := InvalidOrExpiredCredential(cause)
		if !errors.Is(err, cause) {
			t.Error("errors.Is(err, cause) = false")
		}
		if err.Message != "Invalid or expired token" {
			t.Errorf("Message = %v", err.Message)
		}
	})

	t.Run("分類の無いエラーは取り出せないこと", func(t *testing.T) {
		t.Parallel()

		if _, ok := As(errors.New("plain")); ok {
			t.Error("As() = true, want false")
		}
	})
}
