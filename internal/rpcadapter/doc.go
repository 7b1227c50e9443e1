// Package rpcadapter はportsパッケージのサービス契約をバス経由のRPCで実装する。
//
// 各アダプタは件名とペイロードを組み立ててrpc.Callを呼び出すだけで、
// 結果はそのまま呼び出し元に返す。エラーは握りつぶさずに1度だけ伝播する。
package rpcadapter
