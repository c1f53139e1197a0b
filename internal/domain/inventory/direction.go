package inventory

import (
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ResolveDirection devuelve la dirección (IN/OUT) que aplica el tipo de movimiento.
// PRODUCTION y ADJUSTMENT no tienen signo fijo: la dirección debe venir explícita.
func ResolveDirection(movementType, requested string) (string, error) {
	switch movementType {
	case entity.MovementTypeIN, entity.MovementTypeRETURN:
		return entity.DirectionIn, nil
	case entity.MovementTypeOUT, entity.MovementTypeWASTE:
		return entity.DirectionOut, nil
	case entity.MovementTypePRODUCTION, entity.MovementTypeADJUSTMENT:
		if requested == entity.DirectionIn || requested == entity.DirectionOut {
			return requested, nil
		}
		return "", domain.ErrInvalidMovement
	}
	return "", domain.ErrInvalidMovement
}
