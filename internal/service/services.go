package service

import (
	"github.com/rohithvarma444/amEx-sub001/internal/lib/job"
	"github.com/rohithvarma444/amEx-sub001/internal/repository"
	"github.com/rohithvarma444/amEx-sub001/internal/server"
)

// Services groups all service instances for router wiring.
type Services struct {
	Auth     *AuthService
	User     *UserService
	Category *CategoryService
	Post     *PostService
	Interest *InterestService
	Deal     *DealService
	Chat     *ChatService
	Upload   *UploadService
	Job      *job.JobService
}

// NewService constructs the service container.
func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	uploadService, err := NewUploadService(s)
	if err != nil {
		return nil, err
	}

	return &Services{
		Auth:     NewAuthService(s),
		User:     NewUserService(s, repos),
		Category: NewCategoryService(s, repos),
		Post:     NewPostService(s, repos),
		Interest: NewInterestService(s, repos),
		Deal:     NewDealService(s, repos),
		Chat:     NewChatService(s, repos),
		Upload:   uploadService,
		Job:      s.Job,
	}, nil
}
