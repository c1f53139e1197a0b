package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// RequestObserver registra la duración de cada petición (lo implementa metrics.Prometheus).
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// RequestMetrics mide cada petición usando la ruta registrada (no la URL) para acotar la cardinalidad.
func RequestMetrics(obs RequestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" {
			route = utils.CopyString(r.Path)
		}
		// fasthttp reutiliza el buffer del método; Prometheus guarda la etiqueta.
		obs.ObserveRequest(utils.CopyString(c.Method()), route, status, time.Since(start))
		return err
	}
}
