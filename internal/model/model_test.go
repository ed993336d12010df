package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDealStatusCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    DealStatus
		to      DealStatus
		allowed bool
	}{
		{"pending to active", DealStatusPending, DealStatusActive, true},
		{"pending to declined", DealStatusPending, DealStatusDeclined, true},
		{"pending to completed skips verification", DealStatusPending, DealStatusCompleted, false},
		{"active to completed", DealStatusActive, DealStatusCompleted, true},
		{"active to declined", DealStatusActive, DealStatusDeclined, false},
		{"active back to pending", DealStatusActive, DealStatusPending, false},
		{"declined is terminal", DealStatusDeclined, DealStatusActive, false},
		{"completed is terminal", DealStatusCompleted, DealStatusActive, false},
		{"completed to completed", DealStatusCompleted, DealStatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to))
		})
	}
}

func TestChatHasMember(t *testing.T) {
	chat := &Chat{OwnerID: "user_owner", ParticipantID: "user_participant"}

	assert.True(t, chat.HasMember("user_owner"))
	assert.True(t, chat.HasMember("user_participant"))
	assert.False(t, chat.HasMember("user_stranger"))
	assert.False(t, chat.HasMember(""))
}
