package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/rohithvarma444/amEx-sub001/internal/middleware"
	"github.com/rohithvarma444/amEx-sub001/internal/model"
	"github.com/rohithvarma444/amEx-sub001/internal/server"
	"github.com/rohithvarma444/amEx-sub001/internal/service"
	"github.com/rohithvarma444/amEx-sub001/internal/validation"
)

// DealHandler serves deal workflow endpoints.
type DealHandler struct {
	Handler
	services *service.Services
}

// NewDealHandler constructs a DealHandler.
func NewDealHandler(s *server.Server, services *service.Services) *DealHandler {
	return &DealHandler{
		Handler:  NewHandler(s),
		services: services,
	}
}

// DealResponse is a deal plus, for the post owner while the deal is pending,
// the handoff code. The code is excluded from the embedded deal's JSON and
// only ever appears here.
type DealResponse struct {
	*model.Deal
	OTPCode string `json:"otp_code,omitempty"`
}

// CreateDealRequest selects an interested user and opens the deal.
type CreateDealRequest struct {
	PostID         string `json:"post_id" validate:"required,uuid"`
	SelectedUserID string `json:"selected_user_id" validate:"required"`
}

// Validate implements validation.Validatable.
func (r *CreateDealRequest) Validate() error {
	return validation.Struct(r)
}

// Create opens a deal on the caller's post with the selected user.
func (h *DealHandler) Create(c echo.Context, req *CreateDealRequest) (*DealResponse, error) {
	deal, otp, err := h.services.Deal.Create(
		c.Request().Context(),
		middleware.GetUserID(c),
		uuid.MustParse(req.PostID),
		req.SelectedUserID,
	)
	if err != nil {
		return nil, err
	}
	return &DealResponse{Deal: deal, OTPCode: otp}, nil
}

// DealIDRequest addresses one deal by path parameter.
type DealIDRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}

// Validate implements validation.Validatable.
func (r *DealIDRequest) Validate() error {
	return validation.Struct(r)
}

// Get returns a deal to one of its parties.
func (h *DealHandler) Get(c echo.Context, req *DealIDRequest) (*DealResponse, error) {
	deal, otp, err := h.services.Deal.Get(
		c.Request().Context(),
		middleware.GetUserID(c),
		uuid.MustParse(req.ID),
	)
	if err != nil {
		return nil, err
	}
	return &DealResponse{Deal: deal, OTPCode: otp}, nil
}

// ListMine returns the caller's deals on both sides.
func (h *DealHandler) ListMine(c echo.Context, req *EmptyRequest) ([]*model.Deal, error) {
	return h.services.Deal.ListMine(c.Request().Context(), middleware.GetUserID(c))
}

// VerifyOTPRequest submits the handoff code.
type VerifyOTPRequest struct {
	ID   string `param:"id" validate:"required,uuid"`
	Code string `json:"code" validate:"required,len=6,numeric"`
}

// Validate implements validation.Validatable.
func (r *VerifyOTPRequest) Validate() error {
	return validation.Struct(r)
}

// VerifyOTP confirms the physical handoff, moving the deal to ACTIVE.
func (h *DealHandler) VerifyOTP(c echo.Context, req *VerifyOTPRequest) (*model.Deal, error) {
	return h.services.Deal.VerifyOTP(
		c.Request().Context(),
		middleware.GetUserID(c),
		uuid.MustParse(req.ID),
		req.Code,
	)
}

// CompletePaymentRequest confirms the payment arrived.
type CompletePaymentRequest struct {
	ID         string           `param:"id" validate:"required,uuid"`
	AmountPaid *decimal.Decimal `json:"amount_paid"`
	BuyerUpiID string           `json:"buyer_upi_id" validate:"omitempty,max=100"`
}

// Validate implements validation.Validatable.
func (r *CompletePaymentRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}

	if r.AmountPaid != nil && !r.AmountPaid.IsPositive() {
		return validation.CustomValidationErrors{
			{Field: "amount_paid", Message: "must be greater than zero"},
		}
	}

	return nil
}

// CompletePayment closes the deal and fulfills the post.
func (h *DealHandler) CompletePayment(c echo.Context, req *CompletePaymentRequest) (*model.Deal, error) {
	return h.services.Deal.CompletePayment(
		c.Request().Context(),
		middleware.GetUserID(c),
		uuid.MustParse(req.ID),
		req.AmountPaid,
		req.BuyerUpiID,
	)
}

// Decline lets the selected user back out of a pending deal.
func (h *DealHandler) Decline(c echo.Context, req *DealIDRequest) (*model.Deal, error) {
	return h.services.Deal.Decline(
		c.Request().Context(),
		middleware.GetUserID(c),
		uuid.MustParse(req.ID),
	)
}

// Delete lets the post owner cancel a pending deal.
func (h *DealHandler) Delete(c echo.Context, req *DealIDRequest) error {
	return h.services.Deal.Delete(
		c.Request().Context(),
		middleware.GetUserID(c),
		uuid.MustParse(req.ID),
	)
}
