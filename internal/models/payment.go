package models

import "time"

// ProcessedPayment — строка идемпотентного реестра платежей.
// Наличие записи с данным PaymentID — единственный критерий того, что платёж
// уже был зачислен; повторная верификация того же платежа отклоняется.
type ProcessedPayment struct {
	PaymentID   string // ID платежа во внешнем шлюзе, уникален
	OrderID     string // ID заказа во внешнем шлюзе
	UserUID     string
	PackageID   string // Купленный пакет монет
	CoinsAdded  int
	AmountCents int64
	CreatedAt   time.Time
}

// VerifyPaymentRequest — входные данные подтверждения платежа от клиента.
// Никакое из полей не считается достоверным до прохождения полного конвейера
// верификации.
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
	CoinPackageID     string `json:"coin_package_id" validate:"required,uuid"`
}

// CreateOrderRequest — запрос на создание заказа в платёжном шлюзе.
type CreateOrderRequest struct {
	CoinPackageID string `json:"coin_package_id" validate:"required,uuid"`
}
