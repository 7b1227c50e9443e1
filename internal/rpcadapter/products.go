package rpcadapter

import (
	"context"
	"encoding/json"

	"github.com/nao1215/salesgateway/internal/ports"
	"github.com/nao1215/salesgateway/pkg/rpc"
)

// 商品サービスのコマンド。商品サービスは {"cmd": ...} 形式のパターンで待ち受ける。
var (
	cmdCreateProduct   = rpc.Cmd("create_product")
	cmdFindAllProducts = rpc.Cmd("find_all_products")
	cmdFindOneProduct  = rpc.Cmd("find_one_product")
	cmdUpdateProduct   = rpc.Cmd("update_product")
	cmdDeleteProduct   = rpc.Cmd("delete_product")
)

// updateProductPayload は商品更新のペイロード。IDと更新内容を同じ階層に並べる。
type updateProductPayload struct {
	// ID は商品ID。
	ID string `json:"id"`
	ports.UpdateProduct
}

// Products は商品サービスのRPCアダプタ。
type Products struct {
	client *rpc.Client
}

var _ ports.ProductService = (*Products)(nil)

// NewProducts は商品サービスのアダプタを生成する。
func NewProducts(client *rpc.Client) *Products {
	return &Products{client: client}
}

// CreateProduct は商品を作成する。
func (p *Products) CreateProduct(ctx context.Context, req ports.CreateProduct) (json.RawMessage, error) {
	return rpc.Call[json.RawMessage](ctx, p.client, cmdCreateProduct, req)
}

// FindAllProducts は商品一覧を取得する。
func (p *Products) FindAllProducts(ctx context.Context, page ports.Pagination) (json.RawMessage, error) {
	return rpc.Call[json.RawMessage](ctx, p.client, cmdFindAllProducts, page)
}

// FindOneProduct は商品を1件取得する。
func (p *Products) FindOneProduct(ctx context.Context, id string) (json.RawMessage, error) {
	return rpc.Call[json.RawMessage](ctx, p.client, cmdFindOneProduct, idPayload{ID: id})
}

// UpdateProduct は商品を更新する。
func (p *Products) UpdateProduct(ctx context.Context, id string, req ports.UpdateProduct) (json.RawMessage, error) {
	return rpc.Call[json.RawMessage](ctx, p.client, cmdUpdateProduct, updateProductPayload{ID: id, UpdateProduct: req})
}

// DeleteProduct は商品を削除する。
func (p *Products) DeleteProduct(ctx context.Context, id string) (json.RawMessage, error) {
	return rpc.Call[json.RawMessage](ctx, p.client, cmdDeleteProduct, idPayload{ID: id})
}
