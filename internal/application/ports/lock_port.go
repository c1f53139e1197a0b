package ports

import "context"

// TenantLocker serializa procesos por clave (ej. regeneración de sugerencias de un tenant).
// Lock bloquea hasta obtener el candado o hasta que ctx se cancele.
type TenantLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
