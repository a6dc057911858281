package paymentprovider

// Статус платежа, при котором средства считаются списанными.
// Любой другой статус (включая authorized) не даёт права на зачисление.
const StatusCaptured = "captured"

// CreateOrderRequest — запрос на создание заказа в шлюзе.
// Amount указывается в минорных единицах валюты.
type CreateOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// Order — описание заказа, возвращаемое шлюзом.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Payment — авторитетная запись о платеже, полученная напрямую от шлюза.
// Только эти данные используются в проверках: статус, заказ и сумма
// из клиентского запроса не считаются достоверными.
type Payment struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Status   string `json:"status"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}
