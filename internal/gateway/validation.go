package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/nao1215/salesgateway/internal/ports"
	"github.com/nao1215/salesgateway/pkg/apperr"
)

const (
	// messageInvalidUUID はパスパラメータがUUIDでない場合のメッセージ。
	messageInvalidUUID = "Validation failed (uuid is expected)"
	// messageMalformedJSON はボディがJSONとして解釈できない場合のメッセージ。
	messageMalformedJSON = "Malformed JSON request body"
)

// errTrailingData はボディの最初のJSON値の後に余分なデータがあることを表す。
var errTrailingData = errors.New("unexpected data after JSON value")

// Validator はリクエストDTOの検証を行う。
// gin.Contextへのバインドと検証、検証エラーのメッセージ化を担当する。
type Validator struct {
	v *validator.Validate
}

// NewValidator はカスタムルールを登録したValidatorを生成する。
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// 登録に失敗するのはタグ名が空の場合だけ
	_ = v.RegisterValidation("strongpassword", validateStrongPassword)
	_ = v.RegisterValidation("orderstatus", validateOrderStatus)
	return &Validator{v: v}
}

// Struct は構造体を検証し、失敗した場合はValidationFailureを返す。
func (val *Validator) Struct(s any) error {
	if err := val.v.Struct(s); err != nil {
		return toValidationFailure(err)
	}
	return nil
}

// UUID はパスパラメータがUUIDであることを検証する。
func (val *Validator) UUID(id string) error {
	if err := val.v.Var(id, "required,uuid"); err != nil {
		return apperr.BadRequest(messageInvalidUUID)
	}
	return nil
}

// OrderStatus は注文状態のパスパラメータを検証する。
func (val *Validator) OrderStatus(status string) error {
	if err := val.v.Var(status, "required,orderstatus"); err != nil {
		return apperr.ValidationFailure([]string{orderStatusMessage("status")})
	}
	return nil
}

// BindJSON はリクエストボディをdstにデコードして検証する。
// 未知のフィールドや2つ目以降のJSON値は拒否し、空のボディは空のオブジェクトとして扱う。
func (val *Validator) BindJSON(c *gin.Context, dst any) error {
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if !errors.Is(err, io.EOF) {
			return decodeError(err)
		}
	} else if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return apperr.Wrap(apperr.KindBadRequest, messageMalformedJSON, errTrailingData)
	}
	return val.Struct(dst)
}

// BindQuery はクエリパラメータをdstにバインドして検証する。
// allowedに含まれないパラメータは拒否する。
func (val *Validator) BindQuery(c *gin.Context, dst any, allowed ...string) error {
	var unknown []string
	for key := range c.Request.URL.Query() {
		if !slices.Contains(allowed, key) {
			unknown = append(unknown, fmt.Sprintf("property %s should not exist", key))
		}
	}
	if len(unknown) > 0 {
		return apperr.ValidationFailure(unknown)
	}

	if err := c.ShouldBindQuery(dst); err != nil {
		return apperr.Wrap(apperr.KindValidationFailure, []string{"query parameters must be valid numbers"}, err)
	}
	return val.Struct(dst)
}

// decodeError はJSONのデコードエラーを分類付きエラーに変換する。
func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field == "" {
			return apperr.Wrap(apperr.KindBadRequest, "request body must be a JSON object", err)
		}
		return apperr.Wrap(apperr.KindValidationFailure,
			[]string{fmt.Sprintf("%s must be a %s", typeErr.Field, jsonTypeName(typeErr.Type))}, err)
	}

	if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		return apperr.Wrap(apperr.KindValidationFailure,
			[]string{fmt.Sprintf("property %s should not exist", strings.Trim(field, `"`))}, err)
	}

	return apperr.Wrap(apperr.KindBadRequest, messageMalformedJSON, err)
}

// jsonTypeName はGoの型に対応するJSONの型名を返す。
func jsonTypeName(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}

// toValidationFailure は検証エラーをフィールドごとのメッセージ一覧に変換する。
func toValidationFailure(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Internal("入力値の検証に失敗しました", err)
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, fieldMessage(fe))
	}
	return apperr.Wrap(apperr.KindValidationFailure, messages, err)
}

// fieldMessage は1件の検証エラーをメッセージにする。
func fieldMessage(fe validator.FieldError) string {
	field := fieldPath(fe.Namespace())

	switch fe.Tag() {
	case "required":
		return field + " should not be empty"
	case "email":
		return field + " must be an email"
	case "uuid":
		return field + " must be a UUID"
	case "strongpassword":
		return field + " is not strong enough"
	case "orderstatus":
		return orderStatusMessage(field)
	case "min":
		if k := fe.Kind(); k == reflect.Slice || k == reflect.Array {
			return fmt.Sprintf("%s must contain at least %s elements", field, fe.Param())
		}
		return fmt.Sprintf("%s must not be less than %s", field, fe.Param())
	case "gt":
		if fe.Param() == "0" {
			return field + " must be a positive number"
		}
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

// fieldPath は名前空間をクライアント向けのパスに変換する。
// 先頭の型名と埋め込み構造体の名前（大文字で始まる要素）は取り除く。
// 例: CreateOrder.items[0].productId -> items.0.productId
func fieldPath(namespace string) string {
	var parts []string
	for _, part := range strings.Split(namespace, ".") {
		name, index, hasIndex := strings.Cut(part, "[")
		if name != "" && unicode.IsUpper([]rune(name)[0]) {
			continue
		}
		parts = append(parts, name)
		if hasIndex {
			parts = append(parts, strings.TrimSuffix(index, "]"))
		}
	}
	return strings.Join(parts, ".")
}

// orderStatusMessage は注文状態が不正な場合のメッセージを返す。
func orderStatusMessage(field string) string {
	values := make([]string, 0, len(ports.OrderStatuses))
	for _, s := range ports.OrderStatuses {
		values = append(values, string(s))
	}
	return fmt.Sprintf("%s must be one of the following values: %s", field, strings.Join(values, ", "))
}

// validateStrongPassword は8文字以上で英大文字・英小文字・数字・記号をそれぞれ含むかを検証する。
func validateStrongPassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len([]rune(password)) < 8 {
		return false
	}

	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

// validateOrderStatus は有効な注文状態かを検証する。
func validateOrderStatus(fl validator.FieldLevel) bool {
	return slices.Contains(ports.OrderStatuses, ports.OrderStatus(fl.Field().String()))
}
