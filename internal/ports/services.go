package ports

// Services は起動時に組み立てるサービス実装の一式。
type Services struct {
	// Auth は認証サービス。
	Auth AuthService
	// Products は商品サービス。
	Products ProductService
	// Orders は注文サービス。
	Orders OrderService
}
