// Package apperr defines the error kinds that cross the workflow boundary.
// Collaborator errors (store, provider) are wrapped into an *Error carrying
// one Kind; handlers map the Kind to an HTTP status and a static message.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	InvalidInput      Kind = "invalid_input"
	NotFound          Kind = "not_found"
	Conflict          Kind = "conflict"
	NotConfigured     Kind = "not_configured"
	Unauthorized      Kind = "unauthorized"
	RateLimited       Kind = "rate_limited"
	MalformedResponse Kind = "malformed_response"
	ProviderError     Kind = "provider_error"
	StorageError      Kind = "storage_error"
	Timeout           Kind = "timeout"
)

// Error is a classified failure. Msg is for logs; the user-facing text comes
// from Kind.Message.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	case e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by Kind, so errors.Is(err, apperr.New(NotFound, ""))
// and errors.Is(err, apperr.ErrNotFound) both work.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func New(kind Kind, msg string) *Error { return &Error{Kind: kind, Msg: msg} }

func Wrap(kind Kind, msg string, err error) *Error { return &Error{Kind: kind, Msg: msg, Err: err} }

// Sentinels for errors.Is.
var (
	ErrInvalidInput      = &Error{Kind: InvalidInput}
	ErrNotFound          = &Error{Kind: NotFound}
	ErrConflict          = &Error{Kind: Conflict}
	ErrNotConfigured     = &Error{Kind: NotConfigured}
	ErrUnauthorized      = &Error{Kind: Unauthorized}
	ErrRateLimited       = &Error{Kind: RateLimited}
	ErrMalformedResponse = &Error{Kind: MalformedResponse}
	ErrProviderError     = &Error{Kind: ProviderError}
	ErrStorageError      = &Error{Kind: StorageError}
	ErrTimeout           = &Error{Kind: Timeout}
)

// KindOf returns the Kind of the first *Error in the chain, or "" when the
// error was never classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Status maps a Kind to the HTTP status used by the admin API.
func (k Kind) Status() int {
	switch k {
	case InvalidInput:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Timeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Message is the static user-facing text for a Kind.
func (k Kind) Message() string {
	switch k {
	case InvalidInput:
		return "入力内容が正しくありません"
	case NotFound:
		return "対象のデータが見つかりません"
	case Conflict:
		return "この月には既に公開済みのメッセージがあります"
	case NotConfigured:
		return "生成APIの認証情報が設定されていません"
	case Unauthorized:
		return "生成API認証エラー: APIキーを確認してください"
	case RateLimited:
		return "生成APIのレート制限に達しました。しばらくしてから再試行してください"
	case MalformedResponse:
		return "生成APIからの応答の解析に失敗しました"
	case ProviderError:
		return "コンテンツの生成に失敗しました"
	case StorageError:
		return "データベースの操作に失敗しました"
	case Timeout:
		return "処理がタイムアウトしました。しばらくしてから再試行してください"
	default:
		return "予期しないエラーが発生しました"
	}
}
