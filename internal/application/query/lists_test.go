package query

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lora213/buddyhub/internal/domain/match"
	"github.com/lora213/buddyhub/internal/domain/matching"
	"github.com/lora213/buddyhub/internal/domain/notification"
	"github.com/lora213/buddyhub/internal/domain/shared"
	"github.com/lora213/buddyhub/internal/domain/user"
)

func listUser(t *testing.T, users *fakeUserRepo, email, name string) *user.User {
	t.Helper()
	u, err := user.NewUser(user.NewUserParams{
		ID:           shared.UserID(uuid.NewString()),
		Email:        email,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		FullName:     name,
	})
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func TestListMatchRequests(t *testing.T) {
	users := newFakeUserRepo()
	requests := newFakeRequestRepo()
	handler := NewListMatchRequestsHandler(users, requests)
	ctx := context.Background()

	alice := listUser(t, users, "alice@example.com", "Alice")
	bob := listUser(t, users, "bob@example.com", "Bob")
	carol := listUser(t, users, "carol@example.com", "Carol")

	sent, err := match.NewRequest(match.NewRequestParams{
		ID:       "req-sent",
		SenderID: alice.ID, ReceiverID: bob.ID,
		CompatibilityScore: 70,
	})
	require.NoError(t, err)
	requests.add(sent)

	received, err := match.NewRequest(match.NewRequestParams{
		ID:       "req-received",
		SenderID: carol.ID, ReceiverID: alice.ID,
		CompatibilityScore: 55,
	})
	require.NoError(t, err)
	requests.add(received)

	both, err := handler.Handle(ctx, ListMatchRequestsQuery{UserID: string(alice.ID)})
	require.NoError(t, err)
	require.Len(t, both.Requests, 2)

	onlySent, err := handler.Handle(ctx, ListMatchRequestsQuery{
		UserID:    string(alice.ID),
		Direction: match.DirectionSent,
	})
	require.NoError(t, err)
	require.Len(t, onlySent.Requests, 1)
	assert.Equal(t, "req-sent", onlySent.Requests[0].ID)
	assert.Equal(t, match.DirectionSent, onlySent.Requests[0].Direction)
	assert.Equal(t, "Bob", onlySent.Requests[0].OtherUser.FullName)

	onlyReceived, err := handler.Handle(ctx, ListMatchRequestsQuery{
		UserID:    string(alice.ID),
		Direction: match.DirectionReceived,
	})
	require.NoError(t, err)
	require.Len(t, onlyReceived.Requests, 1)
	assert.Equal(t, "Carol", onlyReceived.Requests[0].OtherUser.FullName)

	// Фильтр по статусу отсекает pending после отклонения.
	require.NoError(t, received.Reject(alice.ID))
	require.NoError(t, requests.UpdateStatus(ctx, received))

	pendingOnly, err := handler.Handle(ctx, ListMatchRequestsQuery{
		UserID: string(alice.ID),
		Status: match.RequestStatusPending,
	})
	require.NoError(t, err)
	require.Len(t, pendingOnly.Requests, 1)
	assert.Equal(t, "req-sent", pendingOnly.Requests[0].ID)
}

func TestListConnections(t *testing.T) {
	users := newFakeUserRepo()
	connections := newFakeConnectionRepo()
	handler := NewListConnectionsHandler(users, connections)
	ctx := context.Background()

	alice := listUser(t, users, "alice@example.com", "Alice")
	bob := listUser(t, users, "bob@example.com", "Bob")

	details, err := json.Marshal(matching.Result{Overall: 65})
	require.NoError(t, err)

	requestID := "req-1"
	conn, err := match.NewConnection(match.NewConnectionParams{
		ID:      "conn-1",
		User1ID: alice.ID, User2ID: bob.ID,
		MatchRequestID:     &requestID,
		CompatibilityScore: 65,
		MatchDetails:       details,
	})
	require.NoError(t, err)
	require.NoError(t, connections.Create(ctx, conn))

	result, err := handler.Handle(ctx, ListConnectionsQuery{UserID: string(alice.ID)})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	require.Len(t, result.Connections, 1)

	dto := result.Connections[0]
	assert.Equal(t, "Bob", dto.Partner.FullName)
	assert.Equal(t, 65, dto.CompatibilityScore)
	require.NotNil(t, dto.MatchDetails)
	assert.Equal(t, 65, dto.MatchDetails.Overall)
	require.NotNil(t, dto.MatchRequestID)
	assert.Equal(t, "req-1", *dto.MatchRequestID)

	// Вторая сторона видит ту же связь со своей перспективы.
	mirrored, err := handler.Handle(ctx, ListConnectionsQuery{UserID: string(bob.ID)})
	require.NoError(t, err)
	require.Len(t, mirrored.Connections, 1)
	assert.Equal(t, "Alice", mirrored.Connections[0].Partner.FullName)
}

func TestListNotifications(t *testing.T) {
	notifications := &fakeNotificationRepo{}
	handler := NewListNotificationsHandler(notifications)
	ctx := context.Background()

	userID := shared.UserID(uuid.NewString())

	first, err := notification.ForMatchRequest("n-1", userID, "Bob", "req-1", 70)
	require.NoError(t, err)
	require.NoError(t, notifications.Create(ctx, first))

	second, err := notification.ForMatchConfirmed("n-2", userID, "Bob", "conn-1")
	require.NoError(t, err)
	second.MarkRead()
	require.NoError(t, notifications.Create(ctx, second))

	all, err := handler.Handle(ctx, ListNotificationsQuery{UserID: string(userID)})
	require.NoError(t, err)
	assert.Len(t, all.Notifications, 2)
	assert.Equal(t, 1, all.UnreadCount)

	unread, err := handler.Handle(ctx, ListNotificationsQuery{UserID: string(userID), UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, unread.Notifications, 1)
	assert.Equal(t, "n-1", unread.Notifications[0].ID)
}
