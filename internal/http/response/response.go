// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков: успешных ответов, ошибок
// с машиночитаемым кодом и сообщений валидации.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
type Response struct {
	Status string `json:"status"`          // "OK" или "Error"
	Error  string `json:"error,omitempty"` // Текст ошибки при неуспехе
	Code   string `json:"code,omitempty"`  // Машиночитаемый код ошибки
	Data   any    `json:"data,omitempty"`  // Данные ответа при успехе
}

// ErrorResponse — структура ошибки для Swagger-документации.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
	Code   string `json:"code,omitempty" example:"insufficient_coins"`
}

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// Машиночитаемые коды ошибок, возвращаемые клиенту.
const (
	CodeUnauthenticated         = "unauthenticated"
	CodeForbidden               = "forbidden"
	CodeNotFound                = "not_found"
	CodeSubscriptionRequired    = "subscription_required"
	CodeInsufficientCoins       = "insufficient_coins"
	CodePlanNotPurchasable      = "plan_not_purchasable"
	CodeInvalidSignature        = "invalid_signature"
	CodePaymentNotCaptured      = "payment_not_captured"
	CodeOrderMismatch           = "order_mismatch"
	CodeAmountMismatch          = "amount_mismatch"
	CodeAlreadyProcessed        = "already_processed"
	CodeVerificationUnavailable = "verification_unavailable"
	CodeGatewayNotConfigured    = "gateway_not_configured"
)

// OKWithData возвращает успешный Response с переданными данными.
func OKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ErrorWithCode возвращает Response с ошибкой и машиночитаемым кодом.
func ErrorWithCode(code, msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
		Code:   code,
	}
}

// ErrorWithCodeData возвращает Response с ошибкой, машиночитаемым кодом
// и дополнительными данными, уточняющими причину отказа.
func ErrorWithCodeData(code, msg string, data any) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
		Code:   code,
		Data:   data,
	}
}

// ValidationError формирует Response со статусом Error на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "numeric":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only numbers", err.Field()))
		case "uuid":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only uuid", err.Field()))
		case "len":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s has invalid length", err.Field()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s has unsupported value", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Response{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}
