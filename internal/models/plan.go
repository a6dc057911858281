package models

import "time"

// Периоды тарификации планов подписки.
const (
	PeriodWeekly   = "weekly"
	PeriodMonthly  = "monthly"
	PeriodYearly   = "yearly"
	PeriodLifetime = "lifetime"
)

// Plan представляет тарифный план подписки.
type Plan struct {
	ID            string // UUID плана
	Name          string
	Description   string
	PriceCents    int    // Цена в минорных единицах валюты
	Currency      string // Код валюты, например "INR"
	BillingPeriod string // weekly | monthly | yearly | lifetime
	MaxStories    *int   // Ограничение на количество историй, nil — без лимита
	IsActive      bool
	CreatedAt     time.Time
}

// PlanCoinCost задаёт цену плана в монетах. Нулевая или отсутствующая
// запись означает, что план нельзя купить за монеты.
type PlanCoinCost struct {
	PlanID   string
	CoinCost int
}

// CoinPackage представляет пакет монет, продаваемый через платёжный шлюз.
type CoinPackage struct {
	ID         string // UUID пакета
	Name       string
	Coins      int // Количество монет в пакете
	PriceCents int // Цена в минорных единицах
	Currency   string
	IsActive   bool
	CreatedAt  time.Time
}

// CreatePlanRequest используется для приёма данных нового плана из JSON-запроса.
type CreatePlanRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=100"`
	Description   string `json:"description"`
	PriceCents    int    `json:"price_cents" validate:"required,gt=0"`
	Currency      string `json:"currency" validate:"required,len=3"`
	BillingPeriod string `json:"billing_period" validate:"required,oneof=weekly monthly yearly lifetime"`
	MaxStories    *int   `json:"max_stories"`
}

// CreateCoinPackageRequest используется для приёма данных нового пакета монет.
type CreateCoinPackageRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Coins      int    `json:"coins" validate:"required,gt=0"`
	PriceCents int    `json:"price_cents" validate:"required,gt=0"`
	Currency   string `json:"currency" validate:"required,len=3"`
}
