package gateway

import (
	"github.com/gin-gonic/gin"
	"github.com/nao1215/salesgateway/internal/ports"
)

// Session は認証ガードが検証に成功した場合にだけ生成するリクエストスコープの認証情報。
// 保護されたハンドラには引数として渡され、生成後に変更されることはない。
type Session struct {
	// Identity は検証済みのユーザー。
	Identity ports.Identity
	// Token は以降の呼び出しで使うトークン。再発行された場合は新しいトークン。
	Token string
}

// handlerFunc はエラーを返すハンドラ。エラーはレスポンスに書き込まずに返す。
type handlerFunc func(c *gin.Context) error

// protectedFunc は検証済みのセッションを受け取るハンドラ。
type protectedFunc func(c *gin.Context, session Session) error

// handle はhandlerFuncをGinのハンドラに変換する。
// 返されたエラーは記録だけ行い、レスポンスはエラートランスレータが書き込む。
func handle(h handlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h(c); err != nil {
			_ = c.Error(err)
			c.Abort()
		}
	}
}
