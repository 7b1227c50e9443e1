package gateway

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/nao1215/salesgateway/pkg/rpc/rpctest"
)

// testJWTSecret はテスト用の認証バックエンドが使う署名秘密鍵。
const testJWTSecret = "test-secret-key"

// testUser はテスト用の認証バックエンドに登録されたユーザー。
var testUser = struct {
	ID    string
	Email string
	Name  string
}{
	ID:    "6b0f3c57-2f3a-4ef4-9b54-5d1f0c3d9a10",
	Email: "alice@example.com",
	Name:  "Alice",
}

// testClaims はテスト用の認証バックエンドが発行するトークンのクレーム。
type testClaims struct {
	jwt.RegisteredClaims
	// Email はユーザーのメールアドレス。
	Email string `json:"email"`
	// Name はユーザー名。
	Name string `json:"name"`
}

// issueToken はテスト用ユーザーのトークンを発行する。ttlが負の場合は期限切れのトークンになる。
func issueToken(t *testing.T, ttl time.Duration) string {
	t.Helper()

	now := time.Now()
	claims := testClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   testUser.ID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: testUser.Email,
		Name:  testUser.Name,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("トークンの署名に失敗: %v", err)
	}
	return signed
}

// fakeAuthBackend はauth.verify.userに応答するテスト用の認証サービス。
// 署名と有効期限を検証し、成功した場合はトークンを再発行する。
func fakeAuthBackend(t *testing.T) rpctest.HandlerFunc {
	t.Helper()

	return func(req rpctest.Request) rpctest.Reply {
		var token string
		if err := json.Unmarshal(req.Data, &token); err != nil {
			return rpctest.Fail(map[string]any{"status": 400, "message": "token must be a string"})
		}

		claims := &testClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(_ *jwt.Token) (any, error) {
			return []byte(testJWTSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !parsed.Valid {
			return rpctest.Fail(map[string]any{"status": 401, "message": "Invalid token"})
		}

		return rpctest.Respond(map[string]any{
			"user": map[string]string{
				"id":    claims.Subject,
				"email": claims.Email,
				"name":  claims.Name,
			},
			"token": issueToken(t, time.Hour),
		})
	}
}
