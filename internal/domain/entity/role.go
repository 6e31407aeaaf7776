package entity

import (
	"sort"
	"strings"

	"github.com/jhoicas/tours-api/internal/domain"
)

// Role es el rol de un usuario. Conjunto cerrado: ver ParseRole.
type Role string

// Roles válidos para User.
const (
	RoleUser      Role = "user"
	RoleGuide     Role = "guide"
	RoleLeadGuide Role = "lead-guide"
	RoleAdmin     Role = "admin"
)

// DefaultRole se asigna en el registro.
const DefaultRole = RoleUser

// Valid indica si r pertenece al conjunto cerrado de roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleGuide, RoleLeadGuide, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole convierte un string en Role; rechaza valores fuera del conjunto.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", domain.ErrInvalidRole
	}
	return r, nil
}

// RoleSet conjunto inmutable de roles permitidos para una ruta.
type RoleSet struct {
	roles map[Role]struct{}
}

// NewRoleSet construye el conjunto. Panic si algún rol no es válido: es un error de programación
// al declarar rutas, no de la petición.
func NewRoleSet(roles ...Role) RoleSet {
	m := make(map[Role]struct{}, len(roles))
	for _, r := range roles {
		if !r.Valid() {
			panic("entity: rol inválido en RoleSet: " + string(r))
		}
		m[r] = struct{}{}
	}
	return RoleSet{roles: m}
}

// Contains indica si r está en el conjunto.
func (s RoleSet) Contains(r Role) bool {
	_, ok := s.roles[r]
	return ok
}

// Roles devuelve los roles ordenados (para logs y mensajes).
func (s RoleSet) Roles() []Role {
	out := make([]Role, 0, len(s.roles))
	for r := range s.roles {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
