package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
)

// RemoteCallError はバス経由の呼び出しが失敗したことを表す。
// 通信エラーとバックエンドのアプリケーションエラーの両方をこの型に正規化する。
type RemoteCallError struct {
	// Pattern は呼び出したパターン名。
	Pattern string
	// Shape はバックエンドが返したエラーの形。通信エラーの場合は空。
	Shape ErrorShape
	// Payload はバックエンドが返したエラーの生データ。通信エラーの場合はnil。
	Payload json.RawMessage
	// Cause は通信エラーの原因。アプリケーションエラーの場合はnil。
	Cause error
}

// Error はerrorインターフェースを実装する。
func (e *RemoteCallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rpc %s: %v", e.Pattern, e.Cause)
	}
	return fmt.Sprintf("rpc %s: remote error: %s", e.Pattern, string(e.Payload))
}

// Unwrap は通信エラーの原因を返す。
func (e *RemoteCallError) Unwrap() error {
	return e.Cause
}

// Remote はバックエンドがエラーを返した場合にtrueを返す。
func (e *RemoteCallError) Remote() bool {
	return e.Payload != nil
}

// AsRemoteCallError はerrがRemoteCallErrorであれば取り出す。
func AsRemoteCallError(err error) (*RemoteCallError, bool) {
	var rce *RemoteCallError
	if errors.As(err, &rce) {
		return rce, true
	}
	return nil, false
}
