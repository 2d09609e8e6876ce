// Package rules — реактивная автоматика заявок: упорядоченный конвейер
// чистых функций, применяемый в одной транзакции с породившей записью.
// Порядок фиксирован: наследование команды, затем штамп завершения.
package rules

import (
	"time"

	"gearguard/internal/entities"
	apperrors "gearguard/pkg/errors"
)

// Rule — шаг конвейера. old == nil означает создание заявки.
type Rule func(old, next *entities.Request, equipment *entities.Equipment, now time.Time)

// Pipeline — правила в порядке применения.
var Pipeline = []Rule{
	InheritTeam,
	StampCompletion,
}

// Apply прогоняет заявку через конвейер перед записью.
func Apply(old, next *entities.Request, equipment *entities.Equipment, now time.Time) {
	for _, rule := range Pipeline {
		rule(old, next, equipment, now)
	}
}

// InheritTeam назначает команду с оборудования, если она не выбрана явно.
// Явно выбранную команду правило никогда не перезаписывает и задним
// числом (при смене команды у оборудования) не срабатывает.
func InheritTeam(old, next *entities.Request, equipment *entities.Equipment, _ time.Time) {
	if next.TeamID != nil || equipment == nil {
		return
	}
	if equipment.TeamID != nil {
		teamID := *equipment.TeamID
		next.TeamID = &teamID
	}
}

// StampCompletion проставляет completed_at ровно в момент, когда статус
// становится Repaired: при переходе из любого другого статуса и,
// на всякий случай, при создании сразу в Repaired. Поздние переходы
// штамп не стирают.
func StampCompletion(old, next *entities.Request, _ *entities.Equipment, now time.Time) {
	if next.Status != entities.StatusRepaired {
		return
	}
	if old != nil && old.Status == entities.StatusRepaired {
		return
	}
	if next.CompletedAt == nil {
		completedAt := now
		next.CompletedAt = &completedAt
	}
}

// ShouldScrapEquipment сообщает, нужно ли каскадно списать оборудование
// после сохранения заявки. Списание идемпотентно и необратимо для
// автоматики — обратный триггер отсутствует.
func ShouldScrapEquipment(next *entities.Request) bool {
	return next.Status == entities.StatusScrap
}

// ValidateSchedule — проверка перед записью: плановое обслуживание
// требует scheduled_at; для внепланового поле игнорируется.
func ValidateSchedule(next *entities.Request) error {
	if next.Kind == entities.KindPreventive && next.ScheduledAt == nil {
		return apperrors.NewValidationError("scheduled_at обязателен для плановых заявок")
	}
	if next.Kind == entities.KindCorrective {
		next.ScheduledAt = nil
	}
	return nil
}
