package rpc

import (
	"fmt"
	"strings"
	"time"

	"github.com/nao1215/salesgateway/pkg/logger"
	"github.com/nats-io/nats.go"
)

// Connect はNATSサーバーに接続する。
// 切断時は無制限に再接続を試み、接続状態の変化をログに出力する。
func Connect(servers []string, name string, log *logger.Logger) (*nats.Conn, error) {
	log = logger.OrDefault(log)

	nc, err := nats.Connect(strings.Join(servers, ","),
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATSから切断されました", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("NATSに再接続しました", "url", c.ConnectedUrl())
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			log.Info("NATS接続をクローズしました")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("NATSへの接続に失敗: %w", err)
	}
	return nc, nil
}
