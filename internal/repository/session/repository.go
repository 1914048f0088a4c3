package session

import "context"

// Repository resolves an opaque session token to a user id. The token format
// is not part of the cart contract.
type Repository interface {
	GetUserID(ctx context.Context, token string) (string, error)
}
