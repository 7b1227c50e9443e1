package ports

import (
	"context"
	"encoding/json"
)

// Pagination はページングのクエリパラメータ。
type Pagination struct {
	// Page は取得するページ番号（1始まり）。
	Page int `json:"page" form:"page,default=1" validate:"min=1"`
	// Limit は1ページあたりの件数。
	Limit int `json:"limit" form:"limit,default=10" validate:"min=1"`
}

// ページングの既定値。
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// DefaultPagination は既定値を設定したページングを返す。
func DefaultPagination() Pagination {
	return Pagination{Page: DefaultPage, Limit: DefaultLimit}
}

// CreateProduct は商品作成のリクエスト。
type CreateProduct struct {
	// Name は商品名。
	Name *string `json:"name" validate:"required"`
	// Price は価格。0以上。
	Price *float64 `json:"price" validate:"required,min=0"`
}

// UpdateProduct は商品更新のリクエスト。すべてのフィールドが任意。
type UpdateProduct struct {
	// Name は商品名。
	Name *string `json:"name,omitempty" validate:"omitempty"`
	// Price は価格。0以上。
	Price *float64 `json:"price,omitempty" validate:"omitempty,min=0"`
}

// ProductService は商品サービスの契約。
type ProductService interface {
	// CreateProduct は商品を作成する。
	CreateProduct(ctx context.Context, req CreateProduct) (json.RawMessage, error)
	// FindAllProducts は商品一覧を取得する。
	FindAllProducts(ctx context.Context, page Pagination) (json.RawMessage, error)
	// FindOneProduct は商品を1件取得する。
	FindOneProduct(ctx context.Context, id string) (json.RawMessage, error)
	// UpdateProduct は商品を更新する。
	UpdateProduct(ctx context.Context, id string, req UpdateProduct) (json.RawMessage, error)
	// DeleteProduct は商品を削除する。
	DeleteProduct(ctx context.Context, id string) (json.RawMessage, error)
}
