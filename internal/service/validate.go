package service

import (
	"errors"
	"net/url"
	"strings"

	"github.com/SergeiKhy/todo-shorturl/internal/apperrors"
)

// Ошибки валидации входных данных
var (
	ErrInvalidURL     = errors.New("невалидный URL")
	ErrNoUpdateFields = errors.New("нет данных для обновления")
	ErrEmptyTitle     = errors.New("пустой заголовок задачи")
	ErrInvalidTaskID  = errors.New("невалидный ID задачи")
)

const maxURLLength = 2048

var allowedURLSchemes = map[string]bool{"http": true, "https": true, "ftp": true, "ftps": true}

// ValidateURL проверяет, что rawURL абсолютный: схема из списка и непустой хост.
// Строка не нормализуется, хранилище сравнивает URL посимвольно.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return apperrors.NewValidationError("url", "URL cannot be empty", ErrInvalidURL)
	}

	if len(rawURL) > maxURLLength {
		return apperrors.NewValidationError("url", "URL is too long (max 2048 characters)", ErrInvalidURL)
	}

	if strings.ContainsAny(rawURL, " \t\r\n") {
		return apperrors.NewValidationError("url", "URL must not contain whitespace", ErrInvalidURL)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return apperrors.NewValidationError("url", "invalid URL format", ErrInvalidURL)
	}

	if !allowedURLSchemes[strings.ToLower(parsed.Scheme)] {
		return apperrors.NewValidationError("url", "URL must start with http://, https://, ftp:// or ftps://", ErrInvalidURL)
	}

	if parsed.Hostname() == "" {
		return apperrors.NewValidationError("url", "URL must contain a valid host", ErrInvalidURL)
	}

	return nil
}
