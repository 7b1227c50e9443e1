package rpc

import (
	"encoding/json"
)

// Pattern はバックエンドが待ち受けるメッセージパターンを表す。
// 文字列パターンはそのまま件名になり、コマンドパターンはJSON表現が件名になる。
type Pattern struct {
	// name はログ出力用のパターン名。
	name string
	// value はエンベロープのpatternフィールドに入る値。
	value any
}

// Subject は文字列パターンを生成する。例: "auth.verify.user"
func Subject(name string) Pattern {
	return Pattern{name: name, value: name}
}

// Cmd は {"cmd": name} 形式のコマンドパターンを生成する。
func Cmd(name string) Pattern {
	return Pattern{name: name, value: map[string]string{"cmd": name}}
}

// Name はパターン名を返す。
func (p Pattern) Name() string {
	return p.name
}

// Subject はNATS上の件名を返す。
func (p Pattern) Subject() string {
	if s, ok := p.value.(string); ok {
		return s
	}
	b, err := json.Marshal(p.value)
	if err != nil {
		return p.name
	}
	return string(b)
}
