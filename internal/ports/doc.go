// Package ports はゲートウェイが呼び出すバックエンドサービスの契約を定義する。
//
// 認証・商品・注文の各サービスについて、通信手段に依存しないインターフェースと
// リクエストDTOを提供する。実装はrpcadapterパッケージがバス経由で行う。
package ports
