// Package rpctest はrpcパッケージを使うコードのテスト用に、メモリ上で動作するバスを提供する。
package rpctest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
)

// Request はバスが受け取ったリクエスト。
type Request struct {
	// Subject は送信先の件名。
	Subject string `json:"-"`
	// Pattern はエンベロープのpatternフィールド。
	Pattern json.RawMessage `json:"pattern"`
	// Data はエンベロープのdataフィールド。
	Data json.RawMessage `json:"data"`
	// ID は相関ID。
	ID string `json:"id"`
}

// Reply はハンドラが返す応答。
type Reply struct {
	// Response は成功時の結果。
	Response any
	// Err はアプリケーションエラーとして返す値。
	Err any
	// TransportErr は通信エラーとして返すエラー。設定されている場合はリプライを送らない。
	TransportErr error
}

// Respond は成功リプライを生成する。
func Respond(v any) Reply {
	return Reply{Response: v}
}

// Fail はアプリケーションエラーのリプライを生成する。
func Fail(errPayload any) Reply {
	return Reply{Err: errPayload}
}

// Drop は通信エラーを生成する。
func Drop(err error) Reply {
	return Reply{TransportErr: err}
}

// HandlerFunc は件名ごとのリクエストを処理する関数。
type HandlerFunc func(req Request) Reply

// Bus はメモリ上で動作するリクエスト/リプライのバス。
// rpc.Requester を満たす。
type Bus struct {
	mu        sync.Mutex
	handlers  map[string]HandlerFunc
	requests  []Request
	connected bool
}

// NewBus は新しいバスを生成する。
func NewBus() *Bus {
	return &Bus{
		handlers:  make(map[string]HandlerFunc),
		connected: true,
	}
}

// Handle は件名に対するハンドラを登録する。
func (b *Bus) Handle(subject string, h HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[subject] = h
}

// SetConnected は接続状態を設定する。
func (b *Bus) SetConnected(connected bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.connected = connected
}

// IsConnected は接続状態を返す。
func (b *Bus) IsConnected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.connected
}

// Requests は受け取ったリクエストを返す。
func (b *Bus) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// RequestCount は指定した件名のリクエスト数を返す。
func (b *Bus) RequestCount(subject string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, r := range b.requests {
		if r.Subject == subject {
			n++
		}
	}
	return n
}

// RequestWithContext はリクエストを記録し、登録されたハンドラの応答を返す。
// ハンドラが無い件名には nats.ErrNoResponders を返す。
func (b *Bus) RequestWithContext(ctx context.Context, subj string, data []byte) (*nats.Msg, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := Request{Subject: subj}
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("rpctest: invalid request envelope: %w", err)
	}
	req.Subject = subj

	b.mu.Lock()
	b.requests = append(b.requests, req)
	h, ok := b.handlers[subj]
	b.mu.Unlock()

	if !ok {
		return nil, nats.ErrNoResponders
	}

	reply := h(req)
	if reply.TransportErr != nil {
		return nil, reply.TransportErr
	}

	body, err := json.Marshal(map[string]any{
		"id":         req.ID,
		"response":   reply.Response,
		"err":        reply.Err,
		"isDisposed": true,
	})
	if err != nil {
		return nil, fmt.Errorf("rpctest: failed to encode reply: %w", err)
	}
	return &nats.Msg{Subject: subj, Data: body}, nil
}
