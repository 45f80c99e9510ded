package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lora213/buddyhub/internal/domain/shared"
)

const (
	senderID   = shared.UserID("6f1c1a2b-0d3e-4b5f-8a9c-112233445566")
	receiverID = shared.UserID("7a2d2b3c-1e4f-4c6a-9b0d-223344556677")
	strangerID = shared.UserID("8b3e3c4d-2f5a-4d7b-ac1e-334455667788")
)

func newPendingRequest(t *testing.T) *Request {
	t.Helper()
	req, err := NewRequest(NewRequestParams{
		ID:                 "req-1",
		SenderID:           senderID,
		ReceiverID:         receiverID,
		CompatibilityScore: 75,
		MatchReason:        "You two are a good match: your profiles have solid common ground.",
	})
	require.NoError(t, err)
	return req
}

func TestNewRequest_Validation(t *testing.T) {
	tests := []struct {
		name   string
		params NewRequestParams
	}{
		{
			name:   "missing id",
			params: NewRequestParams{SenderID: senderID, ReceiverID: receiverID, CompatibilityScore: 50},
		},
		{
			name:   "invalid sender",
			params: NewRequestParams{ID: "req-1", SenderID: "not-a-uuid", ReceiverID: receiverID},
		},
		{
			name:   "self request",
			params: NewRequestParams{ID: "req-1", SenderID: senderID, ReceiverID: senderID},
		},
		{
			name:   "score out of range",
			params: NewRequestParams{ID: "req-1", SenderID: senderID, ReceiverID: receiverID, CompatibilityScore: 101},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRequest(tt.params)
			assert.Error(t, err)
		})
	}
}

func TestRequest_Accept(t *testing.T) {
	req := newPendingRequest(t)

	err := req.Accept(receiverID)

	require.NoError(t, err)
	assert.Equal(t, RequestStatusAccepted, req.Status)
	assert.True(t, req.Status.IsFinal())
}

func TestRequest_AcceptOnlyByReceiver(t *testing.T) {
	req := newPendingRequest(t)

	assert.ErrorIs(t, req.Accept(senderID), shared.ErrNotRequestReceiver)
	assert.ErrorIs(t, req.Accept(strangerID), shared.ErrNotRequestReceiver)
	assert.Equal(t, RequestStatusPending, req.Status)
}

func TestRequest_NoTransitionsOutOfFinalStates(t *testing.T) {
	accepted := newPendingRequest(t)
	require.NoError(t, accepted.Accept(receiverID))

	assert.ErrorIs(t, accepted.Accept(receiverID), shared.ErrRequestNotPending)
	assert.ErrorIs(t, accepted.Reject(receiverID), shared.ErrRequestNotPending)

	rejected := newPendingRequest(t)
	require.NoError(t, rejected.Reject(receiverID))

	assert.ErrorIs(t, rejected.Accept(receiverID), shared.ErrRequestNotPending)
	assert.ErrorIs(t, rejected.Reject(receiverID), shared.ErrRequestNotPending)
	assert.Equal(t, RequestStatusRejected, rejected.Status)
}

func TestRequest_DirectionFor(t *testing.T) {
	req := newPendingRequest(t)

	assert.Equal(t, DirectionSent, req.DirectionFor(senderID))
	assert.Equal(t, DirectionReceived, req.DirectionFor(receiverID))
}

func TestRequest_ConflictFor(t *testing.T) {
	req := newPendingRequest(t)

	conflict := req.ConflictFor(receiverID)

	assert.Equal(t, req.ID, conflict.ExistingID)
	assert.Equal(t, RequestStatusPending, conflict.Status)
	assert.Equal(t, DirectionReceived, conflict.Direction)
	assert.ErrorIs(t, conflict, shared.ErrAlreadyExists)
}

func TestConnection_CanonicalPairOrder(t *testing.T) {
	// Участники нормализуются независимо от порядка аргументов.
	conn, err := NewConnection(NewConnectionParams{
		ID:                 "conn-1",
		User1ID:            receiverID,
		User2ID:            senderID,
		CompatibilityScore: 80,
	})

	require.NoError(t, err)
	assert.Equal(t, senderID, conn.User1ID)
	assert.Equal(t, receiverID, conn.User2ID)
	assert.Nil(t, conn.MatchRequestID)
}

func TestConnection_FromAcceptedRequest(t *testing.T) {
	req := newPendingRequest(t)
	require.NoError(t, req.Accept(receiverID))

	conn, err := FromAcceptedRequest("conn-1", req, nil)

	require.NoError(t, err)
	require.NotNil(t, conn.MatchRequestID)
	assert.Equal(t, req.ID, *conn.MatchRequestID)
	assert.Equal(t, req.CompatibilityScore, conn.CompatibilityScore)
	assert.True(t, conn.InvolvesUser(senderID))
	assert.True(t, conn.InvolvesUser(receiverID))
	assert.Equal(t, receiverID, conn.OtherUser(senderID))
}

func TestConnection_FromPendingRequestFails(t *testing.T) {
	req := newPendingRequest(t)

	_, err := FromAcceptedRequest("conn-1", req, nil)

	assert.Error(t, err)
}
