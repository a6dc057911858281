// Package models содержит доменные модели сервиса: пользователей, тарифные планы,
// подписки, монетный баланс и записи об обработанных платежах.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// User представляет учётную запись родителя в системе.
//
// Поля IsAdmin и Coins изменяются только на сервере: IsAdmin выставляется при
// регистрации первого пользователя либо другим администратором, Coins меняется
// только относительными операциями начисления и списания.
type User struct {
	UID                string     // Уникальный идентификатор пользователя
	Username           string     // Имя пользователя (уникальное)
	Email              string     // Электронная почта
	PasswordHash       string     // Bcrypt-хэш пароля
	PINHash            string     // Bcrypt-хэш 4-значного PIN для детского режима
	IsAdmin            bool       // Признак администратора, назначается только сервером
	IsBlocked          bool       // Признак заблокированной учётной записи
	Coins              int        // Баланс монет, всегда >= 0
	TrialStartedAt     *time.Time // Начало пробного периода, выставляется один раз
	TrialEndsAt        *time.Time // Окончание пробного периода
	SubscriptionStatus string     // Кэшированный статус (trial|active|expired|canceled), только для отображения
	CreatedAt          time.Time
}

// RegisterRequest используется для приёма данных регистрации из JSON-запроса.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	PIN      string `json:"pin" validate:"required,len=4,numeric"`
}

// SettingsUpdateRequest — разрешённый набор полей для обновления настроек.
// Любые другие поля запроса игнорируются: баланс, флаги администратора и даты
// пробного периода через этот путь изменить нельзя.
type SettingsUpdateRequest struct {
	PIN string `json:"pin" validate:"required,len=4,numeric"`
}
