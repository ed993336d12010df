package service

import (
	"github.com/clerk/clerk-sdk-go/v2"

	"github.com/rohithvarma444/amEx-sub001/internal/server"
)

// AuthService initializes the Clerk SDK with the instance secret key. The
// SDK keeps the key in package state, so constructing this once at startup
// is what makes clerk API calls and token verification work everywhere.
type AuthService struct {
	server *server.Server
}

// NewAuthService constructs an AuthService and registers the Clerk key.
func NewAuthService(s *server.Server) *AuthService {
	clerk.SetKey(s.Config.Auth.SecretKey)
	return &AuthService{
		server: s,
	}
}
