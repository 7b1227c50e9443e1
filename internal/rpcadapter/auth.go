package rpcadapter

import (
	"context"
	"encoding/json"

	"github.com/nao1215/salesgateway/internal/ports"
	"github.com/nao1215/salesgateway/pkg/rpc"
)

// 認証サービスの件名。
var (
	subjectVerifyUser   = rpc.Subject("auth.verify.user")
	subjectRegisterUser = rpc.Subject("auth.register.user")
	subjectLoginUser    = rpc.Subject("auth.login.user")
)

// Auth は認証サービスのRPCアダプタ。
type Auth struct {
	client *rpc.Client
}

var _ ports.AuthService = (*Auth)(nil)

// NewAuth は認証サービスのアダプタを生成する。
func NewAuth(client *rpc.Client) *Auth {
	return &Auth{client: client}
}

// VerifyToken はトークンを検証する。ペイロードはトークン文字列そのもの。
func (a *Auth) VerifyToken(ctx context.Context, token string) (ports.VerifyResult, error) {
	return rpc.Call[ports.VerifyResult](ctx, a.client, subjectVerifyUser, token)
}

// Register はユーザーを登録する。
func (a *Auth) Register(ctx context.Context, req ports.RegisterUser) (json.RawMessage, error) {
	return rpc.Call[json.RawMessage](ctx, a.client, subjectRegisterUser, req)
}

// Login はログインする。
func (a *Auth) Login(ctx context.Context, req ports.LoginUser) (json.RawMessage, error) {
	return rpc.Call[json.RawMessage](ctx, a.client, subjectLoginUser, req)
}
