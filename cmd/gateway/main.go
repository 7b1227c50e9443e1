// API Gatewayサービスのエントリポイント。
// 外部からアクセス可能な唯一のサービスであり、セキュリティの境界線となる。
// リクエストを認証したうえで、NATS経由で認証・商品・注文の各サービスに転送する。
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/salesgateway/internal/config"
	"github.com/nao1215/salesgateway/internal/gateway"
	"github.com/nao1215/salesgateway/internal/rpcadapter"
	"github.com/nao1215/salesgateway/pkg/logger"
	"github.com/nao1215/salesgateway/pkg/rpc"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Gatewayサービスが異常終了しました", "error", err)
		os.Exit(1)
	}
}

// run は設定を読み込み、バスに接続してHTTPサーバーを起動する。
// SIGINT/SIGTERMを受け取るとHTTPサーバーを停止し、NATS接続をドレインする。
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Env)
	slog.SetDefault(log.Logger)
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	nc, err := rpc.Connect(cfg.NATSServers, "sales-gateway", log)
	if err != nil {
		return err
	}
	defer func() {
		if err := nc.Drain(); err != nil {
			log.Warn("NATS接続のドレインに失敗", "error", err)
		}
	}()
	log.Info("NATSに接続しました", "url", nc.ConnectedUrl())

	client := rpc.New(nc, rpc.WithLogger(log), rpc.WithTimeout(cfg.RPCTimeout))
	server := gateway.NewServer(cfg, rpcadapter.NewServices(client), client, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("APIルートを公開します", "versions", cfg.APIVersions)
	return server.Run(ctx)
}
