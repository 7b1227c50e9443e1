package rpcadapter

import (
	"context"
	"encoding/json"

	"github.com/nao1215/salesgateway/internal/ports"
	"github.com/nao1215/salesgateway/pkg/rpc"
)

// 注文サービスの件名。
var (
	subjectCreateOrder       = rpc.Subject("createOrder")
	subjectFindAllOrders     = rpc.Subject("findAllOrders")
	subjectFindOneOrder      = rpc.Subject("findOneOrder")
	subjectChangeOrderStatus = rpc.Subject("changeOrderStatus")
)

// changeStatusPayload は注文状態変更のペイロード。
type changeStatusPayload struct {
	// ID は注文ID。
	ID string `json:"id"`
	// Status は変更後の状態。
	Status ports.OrderStatus `json:"status"`
}

// Orders は注文サービスのRPCアダプタ。
type Orders struct {
	client *rpc.Client
}

var _ ports.OrderService = (*Orders)(nil)

// NewOrders は注文サービスのアダプタを生成する。
func NewOrders(client *rpc.Client) *Orders {
	return &Orders{client: client}
}

// CreateOrder は注文を作成する。
func (o *Orders) CreateOrder(ctx context.Context, req ports.CreateOrder) (json.RawMessage, error) {
	return rpc.Call[json.RawMessage](ctx, o.client, subjectCreateOrder, req)
}

// FindAllOrders は注文一覧を取得する。
func (o *Orders) FindAllOrders(ctx context.Context, query ports.OrderPagination) (json.RawMessage, error) {
	return rpc.Call[json.RawMessage](ctx, o.client, subjectFindAllOrders, query)
}

// FindOneOrder は注文を1件取得する。
func (o *Orders) FindOneOrder(ctx context.Context, id string) (json.RawMessage, error) {
	return rpc.Call[json.RawMessage](ctx, o.client, subjectFindOneOrder, idPayload{ID: id})
}

// ChangeOrderStatus は注文の状態を変更する。
func (o *Orders) ChangeOrderStatus(ctx context.Context, id string, status ports.OrderStatus) (json.RawMessage, error) {
	return rpc.Call[json.RawMessage](ctx, o.client, subjectChangeOrderStatus, changeStatusPayload{ID: id, Status: status})
}
