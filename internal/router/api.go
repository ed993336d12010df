package router

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rohithvarma444/amEx-sub001/internal/handler"
	"github.com/rohithvarma444/amEx-sub001/internal/middleware"
	"github.com/rohithvarma444/amEx-sub001/internal/server"
)

// registerAPIRoutes wires the versioned business routes. Everything under
// /api/v1 requires a valid Clerk session except the category listing, which
// is browsable before sign-in.
func registerAPIRoutes(s *server.Server, r *echo.Echo, mw *middleware.Middlewares, h *handler.Handlers) {
	api := r.Group("/api/v1", mw.Auth.RequireAuth)

	// Public reads live on a parallel group without the auth gate.
	public := r.Group("/api/v1")
	public.GET("/categories", handler.Handle(h.Category.Handler, h.Category.List, http.StatusOK, &handler.EmptyRequest{}))

	// Users.
	api.POST("/users/sync", handler.Handle(h.User.Handler, h.User.Sync, http.StatusOK, &handler.EmptyRequest{}))
	api.GET("/users/me", handler.Handle(h.User.Handler, h.User.Me, http.StatusOK, &handler.EmptyRequest{}))
	api.PATCH("/users/me", handler.Handle(h.User.Handler, h.User.UpdateProfile, http.StatusOK, &handler.UpdateProfileRequest{}))

	// Categories. Creation is a dev operation behind the admin secret.
	api.POST("/categories",
		handler.Handle(h.Category.Handler, h.Category.Create, http.StatusCreated, &handler.CreateCategoryRequest{}),
		mw.Auth.RequireAdmin)

	// Posts. Static segments before :id so "mine" never parses as an id.
	api.POST("/posts", handler.Handle(h.Post.Handler, h.Post.Create, http.StatusCreated, &handler.CreatePostRequest{}))
	api.GET("/posts/listings", handler.Handle(h.Post.Handler, h.Post.ListListings, http.StatusOK, &handler.ListPostsRequest{}))
	api.GET("/posts/requests", handler.Handle(h.Post.Handler, h.Post.ListRequests, http.StatusOK, &handler.ListPostsRequest{}))
	api.GET("/posts/mine", handler.Handle(h.Post.Handler, h.Post.ListMine, http.StatusOK, &handler.EmptyRequest{}))
	api.GET("/posts/:id", handler.Handle(h.Post.Handler, h.Post.Get, http.StatusOK, &handler.PostIDRequest{}))
	api.DELETE("/posts/:id", handler.HandleNoContent(h.Post.Handler, h.Post.Delete, http.StatusNoContent, &handler.PostIDRequest{}))

	// Interests, nested under their post.
	api.POST("/posts/:id/interests", handler.Handle(h.Interest.Handler, h.Interest.Create, http.StatusCreated, &handler.CreateInterestRequest{}))
	api.GET("/posts/:id/interests", handler.Handle(h.Interest.Handler, h.Interest.List, http.StatusOK, &handler.ListInterestsRequest{}))

	// Deals. OTP verification is rate limited per user to blunt brute force.
	otpLimit := mw.RateLimit.Limit(
		"verify-otp",
		s.Config.Deal.OTPMaxAttempts,
		time.Duration(s.Config.Deal.OTPAttemptWindowMinutes)*time.Minute,
	)

	api.POST("/deals", handler.Handle(h.Deal.Handler, h.Deal.Create, http.StatusCreated, &handler.CreateDealRequest{}))
	api.GET("/deals/mine", handler.Handle(h.Deal.Handler, h.Deal.ListMine, http.StatusOK, &handler.EmptyRequest{}))
	api.GET("/deals/:id", handler.Handle(h.Deal.Handler, h.Deal.Get, http.StatusOK, &handler.DealIDRequest{}))
	api.POST("/deals/:id/verify-otp",
		handler.Handle(h.Deal.Handler, h.Deal.VerifyOTP, http.StatusOK, &handler.VerifyOTPRequest{}),
		otpLimit)
	api.POST("/deals/:id/complete-payment", handler.Handle(h.Deal.Handler, h.Deal.CompletePayment, http.StatusOK, &handler.CompletePaymentRequest{}))
	api.POST("/deals/:id/decline", handler.Handle(h.Deal.Handler, h.Deal.Decline, http.StatusOK, &handler.DealIDRequest{}))
	api.DELETE("/deals/:id", handler.HandleNoContent(h.Deal.Handler, h.Deal.Delete, http.StatusNoContent, &handler.DealIDRequest{}))

	// Chats. The stream route is long-lived SSE and skips the generic pipeline.
	api.POST("/chats/initiate", handler.Handle(h.Chat.Handler, h.Chat.Initiate, http.StatusOK, &handler.InitiateChatRequest{}))
	api.GET("/chats", handler.Handle(h.Chat.Handler, h.Chat.List, http.StatusOK, &handler.EmptyRequest{}))
	api.GET("/chats/:id/messages", handler.Handle(h.Chat.Handler, h.Chat.ListMessages, http.StatusOK, &handler.ListMessagesRequest{}))
	api.POST("/chats/:id/messages", handler.Handle(h.Chat.Handler, h.Chat.SendMessage, http.StatusCreated, &handler.SendMessageRequest{}))
	api.GET("/chats/:id/stream", h.Chat.Stream)

	// Uploads.
	api.POST("/uploads/image", handler.Handle(h.Upload.Handler, h.Upload.UploadImage, http.StatusCreated, &handler.EmptyRequest{}))
}
