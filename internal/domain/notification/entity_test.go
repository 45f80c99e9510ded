package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lora213/buddyhub/internal/domain/shared"
)

const testUserID = shared.UserID("6f1c1a2b-0d3e-4b5f-8a9c-112233445566")

func TestNewNotification_Validation(t *testing.T) {
	tests := []struct {
		name   string
		params NewNotificationParams
	}{
		{
			name:   "missing id",
			params: NewNotificationParams{UserID: testUserID, Type: TypeMatchRequest, Title: "t"},
		},
		{
			name:   "invalid user",
			params: NewNotificationParams{ID: "n-1", UserID: "nope", Type: TypeMatchRequest, Title: "t"},
		},
		{
			name:   "unknown type",
			params: NewNotificationParams{ID: "n-1", UserID: testUserID, Type: "rank_up", Title: "t"},
		},
		{
			name:   "empty title",
			params: NewNotificationParams{ID: "n-1", UserID: testUserID, Type: TypeMatchRequest},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewNotification(tt.params)
			assert.Error(t, err)
		})
	}
}

func TestNewNotification_StartsUnread(t *testing.T) {
	n, err := NewNotification(NewNotificationParams{
		ID:     "n-1",
		UserID: testUserID,
		Type:   TypeMatchConfirmed,
		Title:  "Match confirmed",
	})

	require.NoError(t, err)
	assert.False(t, n.IsRead)

	n.MarkRead()
	assert.True(t, n.IsRead)

	// Повторная отметка не меняет состояние.
	n.MarkRead()
	assert.True(t, n.IsRead)
}

func TestTemplates(t *testing.T) {
	req, err := ForMatchRequest("n-1", testUserID, "Alex", "req-1", 85)
	require.NoError(t, err)
	assert.Equal(t, TypeMatchRequest, req.Type)
	assert.Equal(t, "Alex wants to connect with you (85% compatibility)", req.Message)
	assert.Equal(t, "req-1", req.RelatedID)

	conf, err := ForMatchConfirmed("n-2", testUserID, "Alex", "conn-1")
	require.NoError(t, err)
	assert.Equal(t, TypeMatchConfirmed, conf.Type)
	assert.Equal(t, "You and Alex are now connected", conf.Message)

	rej, err := ForMatchRejected("n-3", testUserID, "req-1")
	require.NoError(t, err)
	assert.Equal(t, TypeMatchRejected, rej.Type)
	assert.Equal(t, "req-1", rej.RelatedID)
}
