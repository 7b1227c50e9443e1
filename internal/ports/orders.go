package ports

import (
	"context"
	"encoding/json"
)

// OrderStatus は注文の状態。
type OrderStatus string

const (
	// OrderStatusPending は支払い待ち。
	OrderStatusPending OrderStatus = "PENDING"
	// OrderStatusPaid は支払い済み。
	OrderStatusPaid OrderStatus = "PAID"
	// OrderStatusDelivered は配送済み。
	OrderStatusDelivered OrderStatus = "DELIVERED"
	// OrderStatusCancelled はキャンセル済み。
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// OrderStatuses は有効な注文状態の一覧。
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPaid,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// OrderItem は注文明細。価格はバックエンドが決定する。
type OrderItem struct {
	// ProductID は商品ID（UUID）。
	ProductID string `json:"productId" validate:"required,uuid"`
	// Quantity は数量。
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// CreateOrder は注文作成のリクエスト。
type CreateOrder struct {
	// Items は注文明細。1件以上。
	Items []OrderItem `json:"items" validate:"required,min=1,dive"`
}

// OrderPagination は状態による絞り込みを含む注文一覧のクエリ。
type OrderPagination struct {
	Pagination
	// Status は絞り込む注文状態。空の場合は絞り込まない。
	Status OrderStatus `json:"status,omitempty" form:"status" validate:"omitempty,orderstatus"`
}

// ChangeOrderStatus は注文状態変更のリクエスト。
type ChangeOrderStatus struct {
	// Status は変更後の状態。
	Status OrderStatus `json:"status" validate:"required,orderstatus"`
}

// OrderService は注文サービスの契約。
type OrderService interface {
	// CreateOrder は注文を作成する。
	CreateOrder(ctx context.Context, req CreateOrder) (json.RawMessage, error)
	// FindAllOrders は注文一覧を取得する。
	FindAllOrders(ctx context.Context, query OrderPagination) (json.RawMessage, error)
	// FindOneOrder は注文を1件取得する。
	FindOneOrder(ctx context.Context, id string) (json.RawMessage, error)
	// ChangeOrderStatus は注文の状態を変更する。
	ChangeOrderStatus(ctx context.Context, id string, status OrderStatus) (json.RawMessage, error)
}
