package ports

import (
	"context"
	"encoding/json"
)

// Identity は認証サービスが検証したユーザー情報。
// リクエストの間だけ保持され、永続化されない。
type Identity struct {
	// ID はユーザーの一意識別子。
	ID string `json:"id"`
	// Email はユーザーのメールアドレス。
	Email string `json:"email"`
	// Name はユーザー名。
	Name string `json:"name"`
}

// VerifyResult はトークン検証の結果。
type VerifyResult struct {
	// User は検証済みユーザー。検証に失敗した場合はnil。
	User *Identity `json:"user"`
	// Token は再発行されたトークン。再発行されない場合は空。
	Token string `json:"token"`
}

// RegisterUser はユーザー登録のリクエスト。
type RegisterUser struct {
	// Name はユーザー名。
	Name string `json:"name" validate:"required"`
	// Email はメールアドレス。
	Email string `json:"email" validate:"required,email"`
	// Password はパスワード。
	Password string `json:"password" validate:"required,strongpassword"`
}

// LoginUser はログインのリクエスト。
type LoginUser struct {
	// Email はメールアドレス。
	Email string `json:"email" validate:"required,email"`
	// Password はパスワード。
	Password string `json:"password" validate:"required,strongpassword"`
}

// AuthService は認証サービスの契約。
type AuthService interface {
	// VerifyToken はトークンを検証し、ユーザー情報と再発行されたトークンを返す。
	VerifyToken(ctx context.Context, token string) (VerifyResult, error)
	// Register はユーザーを登録する。
	Register(ctx context.Context, req RegisterUser) (json.RawMessage, error)
	// Login はログインする。
	Login(ctx context.Context, req LoginUser) (json.RawMessage, error)
}
