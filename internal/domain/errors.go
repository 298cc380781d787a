package domain

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrInvalidRecipe        = errors.New("invalid recipe")
	ErrQuotaExceeded        = errors.New("quota exceeded")
	ErrEngineTimeout        = errors.New("engine timeout")
	ErrEngineUnavailable    = errors.New("engine unavailable")
	ErrAmbiguousEntitlement = errors.New("ambiguous subscription records")
)
