package catalogservice

import (
	"errors"
	"fmt"
)

var (
	// ErrServiceNotFound возвращается, когда часть услуг не найдена в каталоге
	ErrServiceNotFound = errors.New("catalogservice client: service not found")

	// ErrProfessionalNotFound возвращается, когда мастер не найден
	ErrProfessionalNotFound = errors.New("catalogservice client: professional not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("catalogservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("catalogservice client: invalid response")
)

// MissingServicesError услуги, которых нет в каталоге
type MissingServicesError struct {
	IDs []int64
}

func (e *MissingServicesError) Error() string {
	return fmt.Sprintf("%v: ids=%v", ErrServiceNotFound, e.IDs)
}

func (e *MissingServicesError) Unwrap() error {
	return ErrServiceNotFound
}
