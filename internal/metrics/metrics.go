// Package metrics регистрирует счётчики Prometheus для конвейера верификации
// платежей и операций с монетным балансом.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PaymentVerifications считает исходы верификации платежей по коду результата.
	PaymentVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storynest_payment_verifications_total",
		Help: "Payment verification outcomes by result code.",
	}, []string{"result"})

	// CoinMutations считает операции с балансом монет по виду операции.
	CoinMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storynest_coin_mutations_total",
		Help: "Coin balance mutations by kind.",
	}, []string{"kind"})
)
