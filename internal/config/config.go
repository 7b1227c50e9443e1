// Package config はゲートウェイの設定を環境変数から読み込む。
//
// カレントディレクトリに .env があれば先に読み込み、値の検証に失敗した場合は
// 起動を中止できるようにエラーを返す。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config はゲートウェイの設定値。
type Config struct {
	// Env は実行環境（development / production）。
	Env string
	// Port はHTTPサーバーのリッスンポート。
	Port int `validate:"required,min=1,max=65535"`
	// NATSServers はNATSサーバーのURL一覧。
	NATSServers []string `validate:"required,min=1,dive,url"`
	// RPCTimeout はバス経由の呼び出しの既定の待ち時間。
	RPCTimeout time.Duration `validate:"gt=0"`
	// APIVersions は公開するAPIバージョン。先頭が既定のバージョン。
	APIVersions []string `validate:"required,min=1,dive,numeric"`
	// CORSOrigins はクロスオリジンリクエストを許可するオリジン。
	CORSOrigins []string `validate:"dive,required"`
	// RateLimitRPS はクライアントIPごとの秒間リクエスト数の上限。0の場合は制限しない。
	RateLimitRPS float64 `validate:"gte=0"`
	// RateLimitBurst はクライアントIPごとのバースト数。
	RateLimitBurst int `validate:"gte=0"`
}

// LookupFunc は環境変数を参照する関数。os.LookupEnv と同じシグネチャ。
type LookupFunc func(key string) (string, bool)

// Load は .env と環境変数から設定を読み込んで検証する。
func Load() (*Config, error) {
	// .env が無い環境（コンテナ等）では環境変数だけを使う
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// FromLookup はlookupから設定を読み込んで検証する。
func FromLookup(lookup LookupFunc) (*Config, error) {
	port, err := strconv.Atoi(getEnv(lookup, "PORT", ""))
	if err != nil {
		return nil, fmt.Errorf("PORTが不正です: %w", err)
	}

	timeout, err := time.ParseDuration(getEnv(lookup, "RPC_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("RPC_TIMEOUTが不正です: %w", err)
	}

	rps, err := strconv.ParseFloat(getEnv(lookup, "RATE_LIMIT_RPS", "20"), 64)
	if err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_RPSが不正です: %w", err)
	}

	burst, err := strconv.Atoi(getEnv(lookup, "RATE_LIMIT_BURST", "40"))
	if err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_BURSTが不正です: %w", err)
	}

	cfg := &Config{
		Env:            getEnv(lookup, "APP_ENV", "production"),
		Port:           port,
		NATSServers:    splitCSV(getEnv(lookup, "NATS_SERVERS", "")),
		RPCTimeout:     timeout,
		APIVersions:    splitCSV(getEnv(lookup, "API_VERSIONS", "1")),
		CORSOrigins:    splitCSV(getEnv(lookup, "CORS_ORIGINS", "")),
		RateLimitRPS:   rps,
		RateLimitBurst: burst,
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("設定値の検証に失敗: %w", err)
	}
	return cfg, nil
}

// Addr はHTTPサーバーのリッスンアドレスを返す。
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// IsDevelopment は開発環境かどうかを返す。
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// getEnv は環境変数を取得し、設定されていない場合はデフォルト値を返す。
func getEnv(lookup LookupFunc, key, defaultValue string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return defaultValue
}

// splitCSV はカンマ区切りの文字列を分割し、空要素を取り除く。
func splitCSV(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
