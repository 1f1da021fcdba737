// Package repositories holds the gorm queries behind the services. Every
// method is scoped to the caller's context.
package repositories

import "github.com/sudeviagro/backoffice/pkg/orm"

// ErrNotFound is returned when a lookup or a write matches no row.
var ErrNotFound = orm.ErrNotFound
