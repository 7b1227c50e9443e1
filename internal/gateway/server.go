package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/salesgateway/internal/config"
	"github.com/nao1215/salesgateway/internal/ports"
	"github.com/nao1215/salesgateway/pkg/apperr"
	"github.com/nao1215/salesgateway/pkg/logger"
	"github.com/nao1215/salesgateway/pkg/middleware"
	"golang.org/x/sync/errgroup"
)

const (
	// serviceName はヘルスチェックで返すサービス名。
	serviceName = "gateway"
	// rootMessage はルートパスで返すメッセージ。
	rootMessage = "API Gateway is up and running!"
	// shutdownTimeout はグレースフルシャットダウンの待ち時間。
	shutdownTimeout = 10 * time.Second
)

// BusStatus はバス接続の状態を報告する。*rpc.Client がこのインターフェースを満たす。
type BusStatus interface {
	Healthy() bool
}

// Server はAPI GatewayサービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// addr はサーバーのリッスンアドレス。
	addr string
	// services はバックエンドサービスの実装。
	services ports.Services
	// guard は保護されたルートの認証ガード。
	guard *Guard
	// validate はリクエストDTOの検証器。
	validate *Validator
	// bus はヘルスチェックで報告するバス接続。
	bus BusStatus
	// log は構造化ロガー。
	log *logger.Logger
}

// NewServer は新しいGatewayサーバーを生成する。
func NewServer(cfg *config.Config, services ports.Services, bus BusStatus, log *logger.Logger) *Server {
	log = logger.OrDefault(log)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorTranslator(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, log).RateLimit())

	s := &Server{
		router:   router,
		addr:     cfg.Addr(),
		services: services,
		guard:    NewGuard(services.Auth, log),
		validate: NewValidator(),
		bus:      bus,
		log:      log,
	}
	s.setupRoutes(cfg.APIVersions)

	return s
}

// Handler はHTTPハンドラを返す。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run はHTTPサーバーを起動し、ctxがキャンセルされるとグレースフルシャットダウンする。
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("Gatewayサービスを起動します", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTPサーバーの起動に失敗: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.log.Info("Gatewayサービスを停止します")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTPサーバーの停止に失敗: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes(versions []string) {
	if len(versions) == 0 {
		versions = []string{"1"}
	}

	s.router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, rootMessage)
	})
	s.router.GET("/health", s.handleHealth)

	for _, v := range versions {
		api := s.router.Group("/api/v" + v)

		// 認証
		auth := api.Group("/auth")
		{
			auth.POST("/register", handle(s.handleRegister))
			auth.POST("/login", handle(s.handleLogin))
			auth.GET("/verify", s.guard.Protect(s.handleVerify))
		}

		// 商品（参照は認証不要）
		products := api.Group("/products")
		{
			products.POST("", s.guard.Protect(s.handleCreateProduct))
			products.GET("", handle(s.handleFindAllProducts))
			products.GET("/:id", handle(s.handleFindOneProduct))
			products.PATCH("/:id", s.guard.Protect(s.handleUpdateProduct))
			products.DELETE("/:id", s.guard.Protect(s.handleDeleteProduct))
		}

		// 注文（すべて認証必須）
		orders := api.Group("/orders")
		{
			orders.POST("", s.guard.Protect(s.handleCreateOrder))
			orders.GET("", s.guard.Protect(s.handleFindAllOrders))
			orders.GET("/id/:id", s.guard.Protect(s.handleFindOneOrder))
			orders.GET("/:status", s.guard.Protect(s.handleFindOrdersByStatus))
			orders.PATCH("/:id", s.guard.Protect(s.handleChangeOrderStatus))
		}
	}

	s.router.NoRoute(handle(func(c *gin.Context) error {
		return apperr.NotFound(fmt.Sprintf("Cannot %s %s", c.Request.Method, c.Request.URL.Path))
	}))
}

// handleHealth はバス接続の状態を含むヘルスチェックのハンドラ。
func (s *Server) handleHealth(c *gin.Context) {
	status, bus, code := "ok", "up", http.StatusOK
	if s.bus != nil && !s.bus.Healthy() {
		status, bus, code = "degraded", "down", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status, "service": serviceName, "bus": bus})
}
