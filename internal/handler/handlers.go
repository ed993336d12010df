package handler

import (
	"github.com/rohithvarma444/amEx-sub001/internal/server"
	"github.com/rohithvarma444/amEx-sub001/internal/service"
)

// Handlers groups all HTTP handlers so router setup passes one object around.
type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler

	User     *UserHandler
	Category *CategoryHandler
	Post     *PostHandler
	Interest *InterestHandler
	Deal     *DealHandler
	Chat     *ChatHandler
	Upload   *UploadHandler
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),

		User:     NewUserHandler(s, services),
		Category: NewCategoryHandler(s, services),
		Post:     NewPostHandler(s, services),
		Interest: NewInterestHandler(s, services),
		Deal:     NewDealHandler(s, services),
		Chat:     NewChatHandler(s, services),
		Upload:   NewUploadHandler(s, services),
	}
}
