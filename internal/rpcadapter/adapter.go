package rpcadapter

import (
	"github.com/nao1215/salesgateway/internal/ports"
	"github.com/nao1215/salesgateway/pkg/rpc"
)

// idPayload はIDのみを送る操作のペイロード。
type idPayload struct {
	// ID は対象の識別子。
	ID string `json:"id"`
}

// NewServices はRPCクライアントを共有する全サービスのアダプタを生成する。
func NewServices(client *rpc.Client) ports.Services {
	return ports.Services{
		Auth:     NewAuth(client),
		Products: NewProducts(client),
		Orders:   NewOrders(client),
	}
}
