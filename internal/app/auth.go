package app

import (
	"context"
	"errors"

	"github.com/Dragon57t/GAME-ART/internal/domain"
)

var ErrInvalidToken = errors.New("invalid token")

// Authenticator resolves an opaque client token into a display identity.
// Implemented by the external auth service client; nil when no auth
// service is configured, in which case connections stay anonymous.
type Authenticator interface {
	Resolve(ctx context.Context, token string) (*domain.Identity, error)
}
