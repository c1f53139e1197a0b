package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrInvalidMovement     = errors.New("movimiento inválido")
	ErrAlreadyConfirmed    = errors.New("el ítem ya fue confirmado")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia, reintente")
)
