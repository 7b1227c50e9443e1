package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nao1215/salesgateway/pkg/logger"
	"github.com/nats-io/nats.go"
)

// DefaultTimeout はコンテキストに期限が無い場合に適用するリクエストの待ち時間。
const DefaultTimeout = 5 * time.Second

// Requester はリクエスト/リプライを1往復行うバス接続を表す。
// *nats.Conn がこのインターフェースを満たす。
type Requester interface {
	RequestWithContext(ctx context.Context, subj string, data []byte) (*nats.Msg, error)
}

// connectionStatus は接続状態を報告できるバス接続を表す。
type connectionStatus interface {
	IsConnected() bool
}

// Client はバックエンドサービス呼び出し用のRPCクライアント。
// プロセス全体で1つの接続を共有し、すべてのアダプタから並行に使用できる。
type Client struct {
	// conn はバス接続。
	conn Requester
	// log は呼び出しごとの構造化ログの出力先。
	log *logger.Logger
	// timeout はコンテキストに期限が無い場合の待ち時間。
	timeout time.Duration
}

// Option はClientの設定を変更する関数。
type Option func(*Client)

// WithLogger は呼び出しログの出力先を設定する。
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// WithTimeout はコンテキストに期限が無い場合の待ち時間を設定する。
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New は新しいRPCクライアントを生成する。
func New(conn Requester, opts ...Option) *Client {
	c := &Client{
		conn:    conn,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = logger.OrDefault(c.log)
	return c
}

// Healthy はバス接続が利用可能かどうかを返す。
// 接続状態を報告できない実装の場合は常にtrueを返す。
func (c *Client) Healthy() bool {
	if s, ok := c.conn.(connectionStatus); ok {
		return s.IsConnected()
	}
	return true
}

// Call はpatternにpayloadを送信し、1件のリプライをT型で返す。
// Tにjson.RawMessageを指定した場合はリプライを加工せずにそのまま返す。
// 失敗した場合は必ず*RemoteCallErrorを返し、リトライは行わない。
func Call[T any](ctx context.Context, c *Client, pattern Pattern, payload any) (T, error) {
	var zero T

	start := time.Now()
	correlationID := uuid.NewString()
	raw, err := c.roundTrip(ctx, pattern, correlationID, payload)
	c.logCall(ctx, pattern, correlationID, time.Since(start), err)
	if err != nil {
		return zero, err
	}

	var result T
	if p, ok := any(&result).(*json.RawMessage); ok {
		*p = raw
		return result, nil
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return zero, &RemoteCallError{
			Pattern: pattern.Name(),
			Cause:   fmt.Errorf("リプライのデシリアライズに失敗: %w", err),
		}
	}
	return result, nil
}

// roundTrip はエンベロープを組み立てて送信し、リプライのresponseを返す。
func (c *Client) roundTrip(ctx context.Context, pattern Pattern, correlationID string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(requestEnvelope{
		Pattern: pattern.value,
		Data:    payload,
		ID:      correlationID,
	})
	if err != nil {
		return nil, &RemoteCallError{
			Pattern: pattern.Name(),
			Cause:   fmt.Errorf("リクエストのシリアライズに失敗: %w", err),
		}
	}

	ctx, cancel := c.withDeadline(ctx)
	defer cancel()

	msg, err := c.conn.RequestWithContext(ctx, pattern.Subject(), body)
	if err != nil {
		return nil, &RemoteCallError{
			Pattern: pattern.Name(),
			Cause:   fmt.Errorf("バスへのリクエストに失敗: %w", err),
		}
	}

	var reply replyEnvelope
	if err := json.Unmarshal(msg.Data, &reply); err != nil {
		return nil, &RemoteCallError{
			Pattern: pattern.Name(),
			Cause:   fmt.Errorf("リプライのエンベロープが不正: %w", err),
		}
	}

	if reply.hasError() {
		return nil, &RemoteCallError{
			Pattern: pattern.Name(),
			Shape:   parseErrorShape(reply.Err),
			Payload: reply.Err,
		}
	}

	if !isPresent(reply.Response) {
		return json.RawMessage("null"), nil
	}
	return reply.Response, nil
}

// withDeadline はコンテキストに期限が無い場合のみ既定の待ち時間を設定する。
// NATSのリクエストは期限付きのコンテキストを必要とする。
func (c *Client) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

// logCall は呼び出し結果を1件の構造化ログとして出力する。
func (c *Client) logCall(ctx context.Context, pattern Pattern, correlationID string, elapsed time.Duration, err error) {
	attrs := []any{
		slog.String("pattern", pattern.Name()),
		slog.String("subject", pattern.Subject()),
		slog.String("correlation_id", correlationID),
		slog.Float64("duration_ms", float64(elapsed.Microseconds())/1000),
	}

	l := c.log.WithContext(ctx)
	if err != nil {
		l.Error("rpc呼び出しに失敗", append(attrs, slog.String("error", err.Error()))...)
		return
	}
	l.Info("rpc呼び出しが完了", attrs...)
}
