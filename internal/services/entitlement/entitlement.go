// Package entitlement вычисляет текущий статус доступа пользователя.
// Вычисление чистое: только входные данные и текущее время, никакого
// состояния. Результат никогда не кэшируется между запросами — время идёт,
// а подписки создаются асинхронно.
package entitlement

import (
	"time"

	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/models"
)

// Статусы доступа.
const (
	StatusTrial   = "trial"
	StatusActive  = "active"
	StatusExpired = "expired"
)

// Resolve вычисляет статус доступа по данным пользователя, его последней
// подписке и текущему времени. Правила применяются по приоритету:
// администратор всегда активен; затем действующий пробный период; затем
// действующая подписка (безлимитная при EndDate == nil); иначе доступ истёк.
// Кэшированное поле SubscriptionStatus пользователя здесь не читается.
func Resolve(user *models.User, latest *models.Subscription, now time.Time) models.Entitlement {
	if user.IsAdmin {
		return models.Entitlement{
			Status:        StatusActive,
			HasActivePass: true,
		}
	}

	if user.TrialStartedAt != nil && user.TrialEndsAt != nil && now.Before(*user.TrialEndsAt) {
		return models.Entitlement{
			Status:             StatusTrial,
			TrialDaysRemaining: daysRemaining(*user.TrialEndsAt, now),
			HasActivePass:      true,
		}
	}

	if latest != nil && latest.Status == models.SubStatusActive &&
		(latest.EndDate == nil || now.Before(*latest.EndDate)) {
		return models.Entitlement{
			Status:            StatusActive,
			HasActivePass:     true,
			ActivePassEndDate: latest.EndDate,
		}
	}

	return models.Entitlement{
		Status: StatusExpired,
	}
}

// daysRemaining возвращает количество оставшихся дней, округлённое вверх:
// за миллисекунду до конца пробного периода остаётся один день.
func daysRemaining(until, now time.Time) int {
	left := until.Sub(now)
	days := int(left / (24 * time.Hour))
	if left%(24*time.Hour) > 0 {
		days++
	}
	if days < 0 {
		return 0
	}
	return days
}
