package utils

import (
	"context"

	"gearguard/internal/entities"
	"gearguard/pkg/contextkeys"
	apperrors "gearguard/pkg/errors"
)

// GetActorFromCtx достаёт аутентифицированного пользователя (id, роль,
// команды), положенного в контекст auth-мидлвэром.
func GetActorFromCtx(ctx context.Context) (*entities.User, error) {
	actor, ok := ctx.Value(contextkeys.ActorKey).(*entities.User)
	if !ok || actor == nil {
		return nil, apperrors.ErrUserNotFound
	}
	return actor, nil
}
