package booking

import (
	"context"

	"sparkclean/models"
	"sparkclean/utils"
)

// Principal is the authenticated caller.
type Principal struct {
	ID   string
	Role string
}

type principalKey struct{}

// WithPrincipal attaches the caller to ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the caller attached to ctx, if any.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok && p.ID != ""
}

// Authorizer decides whether the caller may change a booking's assignment.
type Authorizer interface {
	AuthorizeAssignment(ctx context.Context, booking *models.Booking) error
}

// OwnerAuthorizer lets admins assign any booking and customers only their own.
type OwnerAuthorizer struct{}

func (OwnerAuthorizer) AuthorizeAssignment(ctx context.Context, booking *models.Booking) error {
	p, ok := PrincipalFrom(ctx)
	if !ok {
		return newError(CodeUnauthorized, "no authenticated caller")
	}
	if p.Role == utils.RoleAdmin {
		return nil
	}
	if p.ID != booking.CustomerID {
		return newError(CodeUnauthorized, "booking %s does not belong to caller", booking.ID)
	}
	return nil
}
