package identity

import (
	"context"
)

var userCtxKey = &contextKey{"user"}
var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// WithContext sets the User in the given context
func WithContext(r context.Context, user *User) context.Context {
	return context.WithValue(r, userCtxKey, user)
}

// FromContext finds the user from the context.
func FromContext(ctx context.Context) (*User, bool) {
	raw, ok := ctx.Value(userCtxKey).(*User)
	return raw, ok
}

// WithClaimsContext sets the AuthClaims in the given context
func WithClaimsContext(r context.Context, claims AuthClaims) context.Context {
	return context.WithValue(r, claimsCtxKey, claims)
}

// GetClaims extracts the AuthClaims from the standard context
func GetClaims(ctx context.Context) (AuthClaims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(AuthClaims)
	return raw, ok
}

// Can is a convenience function to check capabilities directly from the context
func Can(ctx context.Context, action string) bool {
	claims, ok := GetClaims(ctx)
	if !ok {
		return false
	}

	switch action {
	case "view-data":
		return claims.CanViewData()
	case "submit-data":
		return claims.CanSubmitData()
	case "manage-users":
		return claims.CanManageUsers()
	default:
		return false
	}
}
