package models

import "time"

// Статусы подписки пользователя.
const (
	SubStatusActive   = "active"
	SubStatusCanceled = "canceled"
	SubStatusExpired  = "expired"
	SubStatusPending  = "pending"
)

// Subscription представляет запись о подписке пользователя.
// История подписок append-only: при активации всегда создаётся новая строка,
// актуальной считается последняя созданная.
// Поле EndDate может быть nil — это означает отсутствие даты окончания
// (пожизненный план).
type Subscription struct {
	ID         string // UUID записи
	UserUID    string // Владелец подписки
	PlanID     string // Ссылка на тарифный план
	Status     string // active | canceled | expired | pending
	StartDate  time.Time
	EndDate    *time.Time
	CanceledAt *time.Time
	CreatedAt  time.Time
}

// Entitlement — результат вычисления текущего статуса доступа пользователя.
// Вычисляется заново на каждый запрос, никогда не кэшируется.
type Entitlement struct {
	Status             string     `json:"status"` // trial | active | expired
	TrialDaysRemaining int        `json:"trial_days_remaining"`
	HasActivePass      bool       `json:"has_active_pass"`
	ActivePassEndDate  *time.Time `json:"active_pass_end_date,omitempty"`
}
