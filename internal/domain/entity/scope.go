package entity

// Scope identifica al tenant (organización o centro de costo) y al actor de cada llamada.
// Lo construye la capa que autentica (JWT, scheduler, importador); el núcleo solo lo consume.
type Scope struct {
	TenantID string
	UserID   string
}

// Valid indica si el scope tiene tenant. UserID puede venir vacío en procesos automáticos.
func (s Scope) Valid() bool {
	return s.TenantID != ""
}
