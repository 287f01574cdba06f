package cards

import (
	"github.com/google/uuid"
	"github.com/hugh/cardhub/internal/database/models"
)

// Actor identifies the caller of a domain operation. It is built from the
// request's token claims and passed explicitly into every service call;
// domain code never reads identity from ambient request state.
type Actor struct {
	UserID uuid.UUID
	// CompanyID is nil for platform-level callers (super admins), who see
	// all tenants.
	CompanyID *uuid.UUID
	Role      models.Role
}

// Scoped reports whether the actor is confined to a single company.
func (a Actor) Scoped() bool {
	return a.CompanyID != nil
}
