package repository

import (
	"github.com/rohithvarma444/amEx-sub001/internal/server"
)

// Repositories is a container grouping all repository instances, so wiring
// passes one object around instead of six.
type Repositories struct {
	Users      *UserRepository
	Categories *CategoryRepository
	Posts      *PostRepository
	Interests  *InterestRepository
	Deals      *DealRepository
	Chats      *ChatRepository
}

// NewRepositories constructs the repository container from the application
// container (the pool lives on s.DB).
func NewRepositories(s *server.Server) *Repositories {
	pool := s.DB.Pool

	return &Repositories{
		Users:      &UserRepository{pool: pool},
		Categories: &CategoryRepository{pool: pool},
		Posts:      &PostRepository{pool: pool},
		Interests:  &InterestRepository{pool: pool},
		Deals:      &DealRepository{pool: pool},
		Chats:      &ChatRepository{pool: pool},
	}
}
