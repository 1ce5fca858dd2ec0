package e

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound - запись с указанным идентификатором не существует
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput - некорректные входные данные (валидация)
	ErrInvalidInput = errors.New("invalid input")
	// ErrInternal - ошибка хранилища или транспорта
	ErrInternal = errors.New("internal error")
	// ErrMapping - сохраненные данные не проходят проверку доменных enum (коррупция данных)
	ErrMapping = errors.New("stored data mapping error")
	// ErrUnauthorized - токен отсутствует или не прошел проверку
	ErrUnauthorized = errors.New("unauthorized")

	ErrDeadline = errors.New("deadline exceeded")
	ErrCanceled = errors.New("context canceled")
)

func Wrap(message string, err error) error {
	return fmt.Errorf("%s: %w", message, err)
}

// WrapError приводит ошибки контекста и postgres к доменным sentinel-ошибкам
func WrapError(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, ErrDeadline)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, ErrCanceled)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503", "23514", "22003":
			return fmt.Errorf("%s: %w", op, ErrInvalidInput)
		default:
			return fmt.Errorf("%s: pg error %s: %w", op, pgErr.Code, ErrInternal)
		}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, ErrInternal)
}
