package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lora213/buddyhub/internal/domain/match"
	"github.com/lora213/buddyhub/internal/domain/matching"
	"github.com/lora213/buddyhub/internal/domain/notification"
	"github.com/lora213/buddyhub/internal/domain/shared"
)

type respondFixture struct {
	*sendFixture
	respond   *RespondMatchRequestHandler
	requestID string
}

func newRespondFixture(t *testing.T) *respondFixture {
	t.Helper()

	base := newSendFixture(t)

	sent, err := base.handler.Handle(context.Background(), SendMatchRequestCommand{
		SenderID:   string(base.alice.ID),
		ReceiverID: string(base.bob.ID),
	})
	require.NoError(t, err)

	// Уведомление о запросе не мешает проверкам ниже.
	base.notifications.items = nil

	return &respondFixture{
		sendFixture: base,
		respond: NewRespondMatchRequestHandler(
			base.users, base.rubrics, base.requests, base.connections, base.notifications,
			matching.NewDefaultEngine(), shared.NopPublisher{}, testLogger(),
		),
		requestID: sent.RequestID,
	}
}

func TestRespondMatchRequest_AcceptFormsConnection(t *testing.T) {
	f := newRespondFixture(t)
	ctx := context.Background()

	result, err := f.respond.Handle(ctx, RespondMatchRequestCommand{
		RequestID: f.requestID,
		ActorID:   string(f.bob.ID),
		Accept:    true,
	})

	require.NoError(t, err)
	assert.Equal(t, match.RequestStatusAccepted, result.Status)
	require.NotEmpty(t, result.ConnectionID)

	conn, err := f.connections.GetByID(ctx, result.ConnectionID)
	require.NoError(t, err)
	assert.Equal(t, 65, conn.CompatibilityScore)
	assert.NotEmpty(t, conn.MatchDetails)

	// Обе стороны получили match_confirmed.
	for _, userID := range []shared.UserID{f.alice.ID, f.bob.ID} {
		notifs := f.notifications.forUser(userID)
		require.Len(t, notifs, 1)
		assert.Equal(t, notification.TypeMatchConfirmed, notifs[0].Type)
	}

	require.Len(t, result.Events, 2)
	assert.Equal(t, shared.EventMatchAccepted, result.Events[0].EventType())
	assert.Equal(t, shared.EventConnectionFormed, result.Events[1].EventType())
}

func TestRespondMatchRequest_RejectNotifiesSender(t *testing.T) {
	f := newRespondFixture(t)

	result, err := f.respond.Handle(context.Background(), RespondMatchRequestCommand{
		RequestID: f.requestID,
		ActorID:   string(f.bob.ID),
		Accept:    false,
	})

	require.NoError(t, err)
	assert.Equal(t, match.RequestStatusRejected, result.Status)
	assert.Empty(t, result.ConnectionID)

	notifs := f.notifications.forUser(f.alice.ID)
	require.Len(t, notifs, 1)
	assert.Equal(t, notification.TypeMatchRejected, notifs[0].Type)

	// Получатель ничего не получает при собственном отказе.
	assert.Empty(t, f.notifications.forUser(f.bob.ID))
}

func TestRespondMatchRequest_OnlyReceiverMayRespond(t *testing.T) {
	f := newRespondFixture(t)

	_, err := f.respond.Handle(context.Background(), RespondMatchRequestCommand{
		RequestID: f.requestID,
		ActorID:   string(f.alice.ID),
		Accept:    true,
	})

	assert.ErrorIs(t, err, shared.ErrNotRequestReceiver)
}

func TestRespondMatchRequest_FinalStateIsImmutable(t *testing.T) {
	f := newRespondFixture(t)
	ctx := context.Background()

	_, err := f.respond.Handle(ctx, RespondMatchRequestCommand{
		RequestID: f.requestID,
		ActorID:   string(f.bob.ID),
		Accept:    false,
	})
	require.NoError(t, err)

	_, err = f.respond.Handle(ctx, RespondMatchRequestCommand{
		RequestID: f.requestID,
		ActorID:   string(f.bob.ID),
		Accept:    true,
	})

	assert.ErrorIs(t, err, shared.ErrRequestNotPending)
}

func TestRespondMatchRequestCommand_MissingIDsAreValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		cmd  RespondMatchRequestCommand
	}{
		{"missing request id", RespondMatchRequestCommand{ActorID: "u1"}},
		{"missing actor id", RespondMatchRequestCommand{RequestID: "req-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			require.Error(t, err)
			assert.True(t, shared.IsValidation(err))
		})
	}
}

func TestRespondMatchRequest_UnknownRequest(t *testing.T) {
	f := newRespondFixture(t)

	_, err := f.respond.Handle(context.Background(), RespondMatchRequestCommand{
		RequestID: "missing",
		ActorID:   string(f.bob.ID),
		Accept:    true,
	})

	assert.ErrorIs(t, err, shared.ErrNotFound)
}
