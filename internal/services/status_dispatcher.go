package services

import (
	"jobza_backend/internal/lock"
	"jobza_backend/internal/models"
	"jobza_backend/pkg/apperrors"
)

// StatusDispatcher выбирает движок статусов по роли аккаунта
type StatusDispatcher struct {
	engines map[models.UserRole]ProfileStatusEngine
}

// NewStatusDispatcher строит по движку на каждую роль из rules
func NewStatusDispatcher(rules map[models.UserRole]RoleRules, deps StatusEngineDeps) *StatusDispatcher {
	// один замок на все роли, чтобы ключи аккаунтов не расходились
	if deps.Locker == nil {
		deps.Locker = lock.NewKeyedMutex()
	}
	engines := make(map[models.UserRole]ProfileStatusEngine, len(rules))
	for role, r := range rules {
		engines[role] = NewStatusEngine(role, r, deps)
	}
	return &StatusDispatcher{engines: engines}
}

// ForRole - неизвестная роль (в том числе admin/superadmin) дает ErrUnknownRole
func (d *StatusDispatcher) ForRole(role string) (ProfileStatusEngine, error) {
	engine, ok := d.engines[models.UserRole(role)]
	if !ok {
		return nil, apperrors.ErrUnknownRole.WithDetails(map[string]string{"role": role})
	}
	return engine, nil
}
