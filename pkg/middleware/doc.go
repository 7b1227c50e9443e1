// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// エラートランスレータ、パニックリカバリ、リクエストIDとアクセスログ、
// CORS設定、クライアントIPごとのレート制限を含む。
// ハンドラはエラーをc.Errorで記録するだけでよく、エラーレスポンスは
// ErrorTranslatorだけが書き込む。
package middleware
