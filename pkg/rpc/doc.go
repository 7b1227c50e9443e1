// Package rpc はメッセージバス（NATS）上のリクエスト/リプライ通信を行うクライアントを提供する。
//
// ゲートウェイから各バックエンドサービスを呼び出す際の共通処理をまとめる。
// エンベロープの組み立て、相関IDの付与、タイムアウト、エラーの正規化、
// 呼び出しごとの構造化ログを一か所で扱い、各サービスのアダプタは
// 件名とペイロードの型だけを指定してCallを呼び出す。
package rpc
