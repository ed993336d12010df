// Package model defines the persisted entities of the marketplace and the
// enums that constrain their lifecycles.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PostType discriminates listings (for sale) from requests (wanted).
type PostType string

const (
	PostTypeListing PostType = "LISTING"
	PostTypeRequest PostType = "REQUEST"
)

// PostStatus is the post lifecycle.
//
// The fulfilled wire value is spelled "FULLFILLED": it is what existing
// clients match on, so it stays.
type PostStatus string

const (
	PostStatusActive    PostStatus = "ACTIVE"
	PostStatusFulfilled PostStatus = "FULLFILLED"
)

// Urgency applies to request posts only.
type Urgency string

const (
	UrgencyLow    Urgency = "LOW"
	UrgencyMedium Urgency = "MEDIUM"
	UrgencyHigh   Urgency = "HIGH"
)

// DealStatus is the deal workflow state.
type DealStatus string

const (
	DealStatusPending   DealStatus = "PENDING"
	DealStatusActive    DealStatus = "ACTIVE"
	DealStatusDeclined  DealStatus = "DECLINED"
	DealStatusCompleted DealStatus = "COMPLETED"
)

// CanTransition reports whether a deal may move from s to target.
//
// The workflow is linear: PENDING -> ACTIVE (OTP verified) -> COMPLETED
// (payment confirmed), with PENDING -> DECLINED as the only branch.
// DECLINED and COMPLETED are terminal.
func (s DealStatus) CanTransition(target DealStatus) bool {
	switch s {
	case DealStatusPending:
		return target == DealStatusActive || target == DealStatusDeclined
	case DealStatusActive:
		return target == DealStatusCompleted
	default:
		return false
	}
}

// PaymentStatus tracks the out-of-band UPI transfer confirmation.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusReceived PaymentStatus = "RECEIVED"
)

// User is a marketplace account. The ID is the Clerk user id, so there is no
// local credential material.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	UpiID     string    `json:"upi_id,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Category groups posts. Created through the dev endpoint, read-only after.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Post unifies listings and requests under a type discriminator.
type Post struct {
	ID          uuid.UUID        `json:"id"`
	Type        PostType         `json:"type"`
	Title       string           `json:"title"`
	Caption     string           `json:"caption,omitempty"`
	Description string           `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	PriceUnit   string           `json:"price_unit,omitempty"`
	ImageURLs   []string         `json:"image_urls"`
	Location    string           `json:"location,omitempty"`
	Urgency     *Urgency         `json:"urgency,omitempty"`
	Status      PostStatus       `json:"status"`
	UserID      string           `json:"user_id"`
	CategoryID  *uuid.UUID       `json:"category_id,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// Interest is one user's expression of intent toward another user's post.
// One row per (post, user), enforced by a unique constraint.
type Interest struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"post_id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// User is the interested party's profile, populated on owner-facing reads.
	User *User `json:"user,omitempty"`
}

// Deal is the agreed transaction between a post owner and one selected
// interested user. At most one deal exists per post (unique constraint).
type Deal struct {
	ID             uuid.UUID        `json:"id"`
	PostID         uuid.UUID        `json:"post_id"`
	SelectedUserID string           `json:"selected_user_id"`
	Status         DealStatus       `json:"status"`
	OTPCode        string           `json:"-"`
	OTPUsed        bool             `json:"otp_used"`
	OTPExpiresAt   time.Time        `json:"otp_expires_at"`
	PaymentStatus  PaymentStatus    `json:"payment_status"`
	BuyerUpiID     string           `json:"buyer_upi_id,omitempty"`
	AmountPaid     *decimal.Decimal `json:"amount_paid,omitempty"`
	CompletedAt    *time.Time       `json:"completed_at,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// Chat is a conversation about a post between its owner and one participant.
// Unique on (post, participant); created lazily on first contact.
type Chat struct {
	ID            uuid.UUID `json:"id"`
	PostID        uuid.UUID `json:"post_id"`
	OwnerID       string    `json:"owner_id"`
	ParticipantID string    `json:"participant_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HasMember reports whether userID is one of the two chat parties.
func (c *Chat) HasMember(userID string) bool {
	return userID == c.OwnerID || userID == c.ParticipantID
}

// Message is a single chat message.
type Message struct {
	ID        uuid.UUID `json:"id"`
	ChatID    uuid.UUID `json:"chat_id"`
	SenderID  string    `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
