// Package gateway はAPI Gatewayサービスの内部実装を提供する。
//
// 外部からアクセス可能な唯一のサービスであり、セキュリティの境界線として
// 機能する。保護されたルートでは認証ガードが認証サービスにトークンを検証させ、
// 得られたセッションをハンドラに明示的に渡す。ハンドラは入力を検証したうえで
// バックエンドサービスをバス経由で呼び出し、エラーはエラートランスレータが
// 一括してHTTPレスポンスに変換する。
package gateway
