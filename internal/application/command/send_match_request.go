// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/lora213/buddyhub/internal/domain/match"
	"github.com/lora213/buddyhub/internal/domain/matching"
	"github.com/lora213/buddyhub/internal/domain/notification"
	"github.com/lora213/buddyhub/internal/domain/rubric"
	"github.com/lora213/buddyhub/internal/domain/shared"
	"github.com/lora213/buddyhub/internal/domain/user"
	"github.com/lora213/buddyhub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEND MATCH REQUEST COMMAND
// Creates a directed match request, or auto-accepts when a reciprocal
// pending request already exists. The uniqueness of the canonical pair
// is enforced by the repository insert, not by a pre-check, so two
// concurrent sends cannot both succeed.
// ══════════════════════════════════════════════════════════════════════════════

// SendMatchRequestCommand contains the data to send a match request.
type SendMatchRequestCommand struct {
	// SenderID is the authenticated user sending the request.
	SenderID string

	// ReceiverID is the user the request is addressed to.
	ReceiverID string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c SendMatchRequestCommand) Validate() error {
	if c.SenderID == "" {
		return shared.NewDomainError("match", "Send", shared.ErrEmptyValue, "sender_id is required")
	}
	if c.ReceiverID == "" {
		return shared.NewDomainError("match", "Send", shared.ErrEmptyValue, "receiver_id is required")
	}
	if c.SenderID == c.ReceiverID {
		return shared.ErrSelfMatchRequest
	}
	return nil
}

// SendMatchRequestResult contains the result of sending a match request.
type SendMatchRequestResult struct {
	// RequestID is the ID of the request (new or the reciprocal one).
	RequestID string

	// Status is the status of the request after the command.
	Status match.RequestStatus

	// AutoAccepted is true when a reciprocal pending request was accepted
	// instead of creating a new one.
	AutoAccepted bool

	// ConnectionID is set when the command produced a connection.
	ConnectionID string

	// CompatibilityScore is the score computed at send time.
	CompatibilityScore int

	// Events contains domain events generated.
	Events []shared.Event
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// SendMatchRequestHandler handles the SendMatchRequestCommand.
type SendMatchRequestHandler struct {
	userRepo         user.Repository
	rubricRepo       rubric.Repository
	requestRepo      match.RequestRepository
	connectionRepo   match.ConnectionRepository
	notificationRepo notification.Repository
	engine           *matching.Engine
	eventPublisher   shared.EventPublisher
	log              *logger.Logger
}

// NewSendMatchRequestHandler creates a new SendMatchRequestHandler.
func NewSendMatchRequestHandler(
	userRepo user.Repository,
	rubricRepo rubric.Repository,
	requestRepo match.RequestRepository,
	connectionRepo match.ConnectionRepository,
	notificationRepo notification.Repository,
	engine *matching.Engine,
	eventPublisher shared.EventPublisher,
	log *logger.Logger,
) *SendMatchRequestHandler {
	return &SendMatchRequestHandler{
		userRepo:         userRepo,
		rubricRepo:       rubricRepo,
		requestRepo:      requestRepo,
		connectionRepo:   connectionRepo,
		notificationRepo: notificationRepo,
		engine:           engine,
		eventPublisher:   eventPublisher,
		log:              log,
	}
}

// Handle executes the send match request command.
func (h *SendMatchRequestHandler) Handle(ctx context.Context, cmd SendMatchRequestCommand) (*SendMatchRequestResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	senderID := shared.UserID(cmd.SenderID)
	receiverID := shared.UserID(cmd.ReceiverID)

	sender, err := h.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, fmt.Errorf("send_match_request: sender not found: %w", err)
	}

	receiver, err := h.userRepo.GetByID(ctx, receiverID)
	if err != nil {
		return nil, fmt.Errorf("send_match_request: receiver not found: %w", err)
	}

	if !receiver.Status.IsMatchable() {
		return nil, shared.WrapError("match", "Send", shared.ErrInvalidState, "receiver is not available for matching", nil)
	}

	// An existing connection makes any further request meaningless.
	pair := shared.NewPair(senderID, receiverID)
	if _, err := h.connectionRepo.GetByPair(ctx, pair); err == nil {
		return nil, shared.ErrConnectionExists
	} else if !shared.IsNotFound(err) {
		return nil, fmt.Errorf("send_match_request: connection lookup failed: %w", err)
	}

	// Compatibility is computed at send time and frozen on the request,
	// so a score-store failure here fails the send: persisting a request
	// with a fabricated fallback score would freeze it forever.
	senderScores, err := loadScores(ctx, h.rubricRepo, senderID)
	if err != nil {
		return nil, fmt.Errorf("send_match_request: failed to load sender scores: %w", err)
	}
	receiverScores, err := loadScores(ctx, h.rubricRepo, receiverID)
	if err != nil {
		return nil, fmt.Errorf("send_match_request: failed to load receiver scores: %w", err)
	}

	result := h.engine.Compare(senderScores, receiverScores)

	req, err := match.NewRequest(match.NewRequestParams{
		ID:                 uuid.NewString(),
		SenderID:           senderID,
		ReceiverID:         receiverID,
		CompatibilityScore: result.Overall,
		MatchReason:        matching.GenerateReason(result),
	})
	if err != nil {
		return nil, fmt.Errorf("send_match_request: %w", err)
	}

	created, err := h.requestRepo.CreateIfAbsent(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("send_match_request: failed to save request: %w", err)
	}

	if !created {
		return h.handleExistingRequest(ctx, cmd, senderID, result)
	}

	out := &SendMatchRequestResult{
		RequestID:          req.ID,
		Status:             req.Status,
		CompatibilityScore: req.CompatibilityScore,
		Events:             make([]shared.Event, 0, 1),
	}

	h.notify(ctx, func() (*notification.Notification, error) {
		return notification.ForMatchRequest(uuid.NewString(), receiverID, sender.FullName, req.ID, req.CompatibilityScore)
	})

	event := shared.NewMatchRequestSentEvent(req.ID, cmd.SenderID, cmd.ReceiverID, req.CompatibilityScore)
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	out.Events = append(out.Events, event)
	_ = h.eventPublisher.Publish(event)

	return out, nil
}

// handleExistingRequest resolves a send that lost to an existing request
// for the same pair: a reciprocal pending request is auto-accepted,
// anything else is a conflict.
func (h *SendMatchRequestHandler) handleExistingRequest(
	ctx context.Context,
	cmd SendMatchRequestCommand,
	senderID shared.UserID,
	computed matching.Result,
) (*SendMatchRequestResult, error) {
	pair := shared.NewPair(senderID, shared.UserID(cmd.ReceiverID))

	existing, err := h.requestRepo.GetByPair(ctx, pair)
	if err != nil {
		return nil, fmt.Errorf("send_match_request: failed to load existing request: %w", err)
	}

	// Reciprocal pending request: the other side already asked, so both
	// want the match. Accept it instead of reporting a conflict.
	if existing.Status.IsPending() && existing.ReceiverID == senderID {
		return h.autoAccept(ctx, cmd, existing, computed)
	}

	return nil, existing.ConflictFor(senderID)
}

// autoAccept accepts a reciprocal pending request and forms the connection.
func (h *SendMatchRequestHandler) autoAccept(
	ctx context.Context,
	cmd SendMatchRequestCommand,
	existing *match.Request,
	computed matching.Result,
) (*SendMatchRequestResult, error) {
	if err := existing.Accept(shared.UserID(cmd.SenderID)); err != nil {
		return nil, fmt.Errorf("send_match_request: auto-accept failed: %w", err)
	}

	if err := h.requestRepo.UpdateStatus(ctx, existing); err != nil {
		return nil, fmt.Errorf("send_match_request: failed to save auto-accept: %w", err)
	}

	details, err := json.Marshal(computed)
	if err != nil {
		return nil, fmt.Errorf("send_match_request: failed to encode match details: %w", err)
	}

	conn, err := match.FromAcceptedRequest(uuid.NewString(), existing, details)
	if err != nil {
		return nil, fmt.Errorf("send_match_request: failed to build connection: %w", err)
	}

	if err := h.connectionRepo.Create(ctx, conn); err != nil {
		return nil, fmt.Errorf("send_match_request: failed to save connection: %w", err)
	}

	out := &SendMatchRequestResult{
		RequestID:          existing.ID,
		Status:             existing.Status,
		AutoAccepted:       true,
		ConnectionID:       conn.ID,
		CompatibilityScore: existing.CompatibilityScore,
		Events:             make([]shared.Event, 0, 2),
	}

	h.notifyBothConnected(ctx, conn)

	accepted := shared.NewMatchAcceptedEvent(existing.ID, string(existing.SenderID), string(existing.ReceiverID), conn.ID, true)
	formed := shared.NewConnectionFormedEvent(conn.ID, string(conn.User1ID), string(conn.User2ID), conn.CompatibilityScore)
	if cmd.CorrelationID != "" {
		accepted.BaseEvent = accepted.BaseEvent.WithCorrelationID(cmd.CorrelationID)
		formed.BaseEvent = formed.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	out.Events = append(out.Events, accepted, formed)
	_ = h.eventPublisher.Publish(accepted)
	_ = h.eventPublisher.Publish(formed)

	return out, nil
}

// notifyBothConnected creates "match confirmed" notifications for both
// participants. Failures are logged and never fail the command.
func (h *SendMatchRequestHandler) notifyBothConnected(ctx context.Context, conn *match.Connection) {
	profiles, err := h.userRepo.GetPublicProfiles(ctx, []shared.UserID{conn.User1ID, conn.User2ID})
	if err != nil {
		h.log.Warn("failed to load profiles for connection notifications", logger.Err(err))
		profiles = map[shared.UserID]user.PublicProfile{}
	}

	for _, userID := range []shared.UserID{conn.User1ID, conn.User2ID} {
		partnerName := profiles[conn.OtherUser(userID)].FullName
		if partnerName == "" {
			partnerName = "your match"
		}

		uid := userID
		name := partnerName
		h.notify(ctx, func() (*notification.Notification, error) {
			return notification.ForMatchConfirmed(uuid.NewString(), uid, name, conn.ID)
		})
	}
}

// notify builds and persists a notification, logging failures instead of
// propagating them: notification delivery is a side effect and must never
// break the main operation.
func (h *SendMatchRequestHandler) notify(ctx context.Context, build func() (*notification.Notification, error)) {
	n, err := build()
	if err != nil {
		h.log.Warn("failed to build notification", logger.Err(err))
		return
	}

	if err := h.notificationRepo.Create(ctx, n); err != nil {
		h.log.Warn("failed to save notification",
			logger.String("notification_id", n.ID),
			logger.String("type", n.Type.String()),
			logger.Err(err))
	}
}

// loadScores loads a user's score set. A user without any scores is an
// empty set, not an error: the engine has explicit fallbacks for missing
// data. Every other failure is returned to the caller.
func loadScores(ctx context.Context, repo rubric.Repository, userID shared.UserID) (rubric.ScoreSet, error) {
	scores, err := repo.GetByUserID(ctx, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return rubric.ScoreSet{}, nil
		}
		return nil, err
	}
	return scores, nil
}
