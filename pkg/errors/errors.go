package errors

import (
	"errors"
	"fmt"
)

var (
	// Жизненный цикл заявок
	ErrIllegalTransition = fmt.Errorf("недопустимый переход статуса")
	ErrEquipmentScrapped = fmt.Errorf("оборудование списано, операции по нему запрещены")
	ErrConflict          = fmt.Errorf("заявка изменена параллельно, повторите запрос")
	ErrTeamInUse         = fmt.Errorf("команда закреплена за оборудованием и не может быть удалена")

	// Авторизация
	ErrEmptyAuthHeader    = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader  = fmt.Errorf("неверный формат заголовка авторизации")
	ErrInvalidCredentials = fmt.Errorf("неверные учётные данные")
	ErrUnauthorized       = fmt.Errorf("доступ запрещён")
	ErrUserNotFound       = fmt.Errorf("пользователь не найден")

	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")
	ErrTokenIsNotAccess     = fmt.Errorf("токен не является access-токеном")

	// Общие
	ErrNotFound   = fmt.Errorf("запись не найдена")
	ErrBadRequest = fmt.Errorf("неверный запрос")
)

// ValidationError — ошибка доменной валидации (например, отсутствует
// scheduled_at у планового обслуживания). Проверяется до любой записи.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// HttpError — обёртка для ответа клиенту: код, сообщение и исходная ошибка.
type HttpError struct {
	Code    int
	Message string
	Err     error
}

func (e *HttpError) Error() string { return e.Message }

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err}
}
