package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrUnauthenticated = errors.New("authentication required")
	ErrInvalidLogin    = errors.New("invalid username or password")
	ErrStationNotFound = errors.New("station not found")
	ErrOfficeNotFound  = errors.New("office not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrAlreadyTallied  = errors.New("station already tallied")
	ErrValidation      = errors.New("validation failed")
	ErrInternal        = errors.New("internal server error")

	// Both of these satisfy errors.Is(err, ErrValidation).
	ErrInvalidCategory  = fmt.Errorf("%w: invalid special vote category", ErrValidation)
	ErrDuplicateNominee = fmt.Errorf("%w: party already nominated for office", ErrValidation)
)
