// Package apperr はゲートウェイ内で発生するエラーの分類を提供する。
//
// ハンドラやガードはこのパッケージのエラーを返すだけでよく、
// HTTPステータスへの変換はエラートランスレータが一括して行う。
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind はエラーの分類を表す。
type Kind int

const (
	// KindUnhandledInternal は想定外の内部エラーを表す。
	KindUnhandledInternal Kind = iota
	// KindMissingCredential はBearerトークンが存在しない、または形式が不正であることを表す。
	KindMissingCredential
	// KindInvalidOrExpiredCredential はトークン検証に失敗したことを表す。原因はクライアントに開示しない。
	KindInvalidOrExpiredCredential
	// KindValidationFailure は入力値の検証に失敗したことを表す。
	KindValidationFailure
	// KindBadRequest はリクエストの形式が不正であることを表す。
	KindBadRequest
	// KindNotFound はルートやリソースが存在しないことを表す。
	KindNotFound
	// KindTooManyRequests はレート制限を超過したことを表す。
	KindTooManyRequests
	// KindForbidden は許可されていないオリジンなど、リクエストを受け付けられないことを表す。
	KindForbidden
)

// String はログ出力用の分類名を返す。
func (k Kind) String() string {
	switch k {
	case KindMissingCredential:
		return "MissingCredential"
	case KindInvalidOrExpiredCredential:
		return "InvalidOrExpiredCredential"
	case KindValidationFailure:
		return "ValidationFailure"
	case KindBadRequest:
		return "BadRequest"
	case KindNotFound:
		return "NotFound"
	case KindTooManyRequests:
		return "TooManyRequests"
	case KindForbidden:
		return "Forbidden"
	default:
		return "UnhandledInternal"
	}
}

// Error は分類付きのアプリケーションエラー。
type Error struct {
	// Kind はエラーの分類。
	Kind Kind
	// Message はクライアントに返すメッセージ。文字列またはJSONに変換可能な値。
	Message any
	// Err は原因となったエラー。クライアントには返さない。
	Err error
}

// Error はerrorインターフェースを実装する。
func (e *Error) Error() string {
	msg := fmt.Sprint(e.Message)
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

// Unwrap は原因のエラーを返す。
func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus は分類に対応するHTTPステータスコードを返す。
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindMissingCredential, KindInvalidOrExpiredCredential:
		return http.StatusUnauthorized
	case KindValidationFailure, KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// New は分類とメッセージからエラーを生成する。
func New(kind Kind, message any) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap は原因のエラーを保持したまま分類付きエラーを生成する。
func Wrap(kind Kind, message any, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// MissingCredential はトークン未指定エラーを生成する。
func MissingCredential() *Error {
	return New(KindMissingCredential, "Token not found")
}

// InvalidOrExpiredCredential はトークン検証失敗エラーを生成する。
// causeはログ用に保持するだけで、メッセージには含めない。
func InvalidOrExpiredCredential(cause error) *Error {
	return Wrap(KindInvalidOrExpiredCredential, "Invalid or expired token", cause)
}

// ValidationFailure は入力検証エラーを生成する。messagesはそのままレスポンスに含まれる。
func ValidationFailure(messages []string) *Error {
	return New(KindValidationFailure, messages)
}

// BadRequest は不正リクエストエラーを生成する。
func BadRequest(message string) *Error {
	return New(KindBadRequest, message)
}

// NotFound は未検出エラーを生成する。
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// Internal は内部エラーを生成する。
func Internal(message string, err error) *Error {
	return Wrap(KindUnhandledInternal, message, err)
}

// As はerrがアプリケーションエラーであれば取り出す。
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
