package gateway

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/salesgateway/internal/ports"
	"github.com/nao1215/salesgateway/pkg/apperr"
	"github.com/nao1215/salesgateway/pkg/logger"
)

// errNoIdentity は認証サービスが成功を返したがユーザーを含まなかったことを表す。
var errNoIdentity = errors.New("認証サービスがユーザー情報を返しませんでした")

// Guard は保護されたルートの前段でBearerトークンを検証する認証ガード。
type Guard struct {
	auth ports.AuthService
	log  *logger.Logger
}

// NewGuard は認証ガードを生成する。
func NewGuard(auth ports.AuthService, log *logger.Logger) *Guard {
	return &Guard{
		auth: auth,
		log:  logger.OrDefault(log),
	}
}

// Authenticate はAuthorizationヘッダーの値からセッションを生成する。
// トークンが無ければMissingCredential、検証に失敗すればInvalidOrExpiredCredentialを返す。
// 検証の失敗理由はログに残すだけでクライアントには返さない。リトライはしない。
func (g *Guard) Authenticate(ctx context.Context, authorization string) (Session, error) {
	token, ok := bearerToken(authorization)
	if !ok {
		g.log.AuthEvent(ctx, "verify_token", "", false, "Authorizationヘッダーにトークンがありません")
		return Session{}, apperr.MissingCredential()
	}

	result, err := g.auth.VerifyToken(ctx, token)
	if err == nil && result.User == nil {
		err = errNoIdentity
	}
	if err != nil {
		g.log.AuthEvent(ctx, "verify_token", "", false, err.Error())
		return Session{}, apperr.InvalidOrExpiredCredential(err)
	}

	session := Session{Identity: *result.User, Token: token}
	if result.Token != "" {
		session.Token = result.Token
	}

	g.log.AuthEvent(ctx, "verify_token", session.Identity.Email, true, "")
	return session, nil
}

// Protect はガードを通過したリクエストだけhにセッションを渡して実行するハンドラを返す。
func (g *Guard) Protect(h protectedFunc) gin.HandlerFunc {
	return handle(func(c *gin.Context) error {
		session, err := g.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			return err
		}

		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), session.Identity.ID))
		return h(c, session)
	})
}

// bearerToken は "Bearer <token>" 形式のヘッダーからトークンを取り出す。
func bearerToken(authorization string) (string, bool) {
	scheme, rest, _ := strings.Cut(authorization, " ")
	if scheme != "Bearer" {
		return "", false
	}
	token, _, _ := strings.Cut(rest, " ")
	if token == "" {
		return "", false
	}
	return token, true
}
