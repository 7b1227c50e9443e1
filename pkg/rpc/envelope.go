package rpc

import (
	"bytes"
	"encoding/json"
	"math"
)

// requestEnvelope はバスに送信するリクエストのエンベロープ。
type requestEnvelope struct {
	// Pattern はメッセージパターン。
	Pattern any `json:"pattern"`
	// Data はリクエストのペイロード。
	Data any `json:"data"`
	// ID はリクエストとリプライを対応付ける相関ID。
	ID string `json:"id"`
}

// replyEnvelope はバックエンドから受信するリプライのエンベロープ。
// ResponseとErrのどちらか一方だけが設定される。
type replyEnvelope struct {
	// ID はリクエストの相関ID。
	ID string `json:"id"`
	// Response は成功時の結果。
	Response json.RawMessage `json:"response"`
	// Err はアプリケーションエラー。
	Err json.RawMessage `json:"err"`
	// IsDisposed はストリームの終端を表す。単一リプライでは常にtrue。
	IsDisposed bool `json:"isDisposed"`
}

// hasError はリプライがエラーを含むかどうかを返す。
func (r replyEnvelope) hasError() bool {
	return isPresent(r.Err)
}

// isPresent はJSON値が存在し、かつnullでないかどうかを返す。
func isPresent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// ErrorShape はバックエンドが返すエラーの形。
// フィールドが欠けている場合はエラートランスレータが既定値を用いる。
type ErrorShape struct {
	// Status はバックエンドが指定したHTTPステータス。未指定ならnil。
	Status *int `json:"status,omitempty"`
	// Message はバックエンドが指定したメッセージ。文字列またはオブジェクト。
	Message any `json:"message,omitempty"`
}

// parseErrorShape はリプライのerrフィールドを解釈する。
// 文字列のみの場合はメッセージとして扱い、ステータスは未指定とする。
func parseErrorShape(raw json.RawMessage) ErrorShape {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ErrorShape{}
	}

	switch typed := v.(type) {
	case string:
		return ErrorShape{Message: typed}
	case map[string]any:
		shape := ErrorShape{}
		if status, ok := typed["status"].(float64); ok && status == math.Trunc(status) {
			code := int(status)
			shape.Status = &code
		}
		if msg, ok := typed["message"]; ok && msg != nil {
			shape.Message = msg
		}
		return shape
	default:
		return ErrorShape{}
	}
}
