package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// queryTime lee un parámetro RFC3339 (o fecha YYYY-MM-DD); vacío = nil.
func queryTime(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s no es una fecha válida", domain.ErrInvalidInput, key)
}
