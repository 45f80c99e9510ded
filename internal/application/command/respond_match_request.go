package command

import (
	"context"
	"encoding/json"
	"errors"
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
// RESPOND MATCH REQUEST COMMAND
// Accepts or rejects a pending match request. Only the receiver may
// respond; the actor is an explicit parameter so authorization lives in
// the domain transition, not in the transport layer.
// ══════════════════════════════════════════════════════════════════════════════

// RespondMatchRequestCommand contains the data to respond to a request.
type RespondMatchRequestCommand struct {
	// RequestID is the ID of the request being answered.
	RequestID string

	// ActorID is the authenticated user responding.
	ActorID string

	// Accept is true for acceptance, false for rejection.
	Accept bool

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c RespondMatchRequestCommand) Validate() error {
	if c.RequestID == "" {
		return shared.NewDomainError("match", "Respond", shared.ErrEmptyValue, "request_id is required")
	}
	if c.ActorID == "" {
		return shared.NewDomainError("match", "Respond", shared.ErrEmptyValue, "actor_id is required")
	}
	return nil
}

// RespondMatchRequestResult contains the result of responding to a request.
type RespondMatchRequestResult struct {
	// RequestID is the ID of the request.
	RequestID string

	// Status is the status after the response.
	Status match.RequestStatus

	// ConnectionID is set when the response formed a connection.
	ConnectionID string

	// Events contains domain events generated.
	Events []shared.Event
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RespondMatchRequestHandler handles the RespondMatchRequestCommand.
type RespondMatchRequestHandler struct {
	userRepo         user.Repository
	rubricRepo       rubric.Repository
	requestRepo      match.RequestRepository
	connectionRepo   match.ConnectionRepository
	notificationRepo notification.Repository
	engine           *matching.Engine
	eventPublisher   shared.EventPublisher
	log              *logger.Logger
}

// NewRespondMatchRequestHandler creates a new RespondMatchRequestHandler.
func NewRespondMatchRequestHandler(
	userRepo user.Repository,
	rubricRepo rubric.Repository,
	requestRepo match.RequestRepository,
	connectionRepo match.ConnectionRepository,
	notificationRepo notification.Repository,
	engine *matching.Engine,
	eventPublisher shared.EventPublisher,
	log *logger.Logger,
) *RespondMatchRequestHandler {
	return &RespondMatchRequestHandler{
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

// Handle executes the respond match request command.
func (h *RespondMatchRequestHandler) Handle(ctx context.Context, cmd RespondMatchRequestCommand) (*RespondMatchRequestResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	req, err := h.requestRepo.GetByID(ctx, cmd.RequestID)
	if err != nil {
		return nil, fmt.Errorf("respond_match_request: request not found: %w", err)
	}

	actor := shared.UserID(cmd.ActorID)

	if cmd.Accept {
		return h.accept(ctx, cmd, req, actor)
	}
	return h.reject(ctx, cmd, req, actor)
}

func (h *RespondMatchRequestHandler) accept(
	ctx context.Context,
	cmd RespondMatchRequestCommand,
	req *match.Request,
	actor shared.UserID,
) (*RespondMatchRequestResult, error) {
	if err := req.Accept(actor); err != nil {
		return nil, err
	}

	if err := h.requestRepo.UpdateStatus(ctx, req); err != nil {
		return nil, fmt.Errorf("respond_match_request: failed to save acceptance: %w", err)
	}

	// Snapshot the current compatibility breakdown onto the connection.
	// Best effort: the frozen request score is authoritative, so a failed
	// load only costs the detail snapshot, not the acceptance.
	senderScores, serr := loadScores(ctx, h.rubricRepo, req.SenderID)
	receiverScores, rerr := loadScores(ctx, h.rubricRepo, req.ReceiverID)
	if err := errors.Join(serr, rerr); err != nil {
		h.log.Warn("failed to load scores for connection details",
			logger.String("request_id", req.ID),
			logger.Err(err))
	}
	computed := h.engine.Compare(senderScores, receiverScores)

	details, err := json.Marshal(computed)
	if err != nil {
		return nil, fmt.Errorf("respond_match_request: failed to encode match details: %w", err)
	}

	conn, err := match.FromAcceptedRequest(uuid.NewString(), req, details)
	if err != nil {
		return nil, fmt.Errorf("respond_match_request: failed to build connection: %w", err)
	}

	if err := h.connectionRepo.Create(ctx, conn); err != nil {
		return nil, fmt.Errorf("respond_match_request: failed to save connection: %w", err)
	}

	result := &RespondMatchRequestResult{
		RequestID:    req.ID,
		Status:       req.Status,
		ConnectionID: conn.ID,
		Events:       make([]shared.Event, 0, 2),
	}

	h.notifyConnected(ctx, conn)

	accepted := shared.NewMatchAcceptedEvent(req.ID, string(req.SenderID), string(req.ReceiverID), conn.ID, false)
	formed := shared.NewConnectionFormedEvent(conn.ID, string(conn.User1ID), string(conn.User2ID), conn.CompatibilityScore)
	if cmd.CorrelationID != "" {
		accepted.BaseEvent = accepted.BaseEvent.WithCorrelationID(cmd.CorrelationID)
		formed.BaseEvent = formed.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	result.Events = append(result.Events, accepted, formed)
	_ = h.eventPublisher.Publish(accepted)
	_ = h.eventPublisher.Publish(formed)

	return result, nil
}

func (h *RespondMatchRequestHandler) reject(
	ctx context.Context,
	cmd RespondMatchRequestCommand,
	req *match.Request,
	actor shared.UserID,
) (*RespondMatchRequestResult, error) {
	if err := req.Reject(actor); err != nil {
		return nil, err
	}

	if err := h.requestRepo.UpdateStatus(ctx, req); err != nil {
		return nil, fmt.Errorf("respond_match_request: failed to save rejection: %w", err)
	}

	result := &RespondMatchRequestResult{
		RequestID: req.ID,
		Status:    req.Status,
		Events:    make([]shared.Event, 0, 1),
	}

	// The sender is told their request was declined, without details.
	h.notifyRejected(ctx, req)

	event := shared.NewMatchRejectedEvent(req.ID, string(req.SenderID), string(req.ReceiverID))
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	result.Events = append(result.Events, event)
	_ = h.eventPublisher.Publish(event)

	return result, nil
}

// notifyConnected creates "match confirmed" notifications for both sides.
func (h *RespondMatchRequestHandler) notifyConnected(ctx context.Context, conn *match.Connection) {
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

		n, err := notification.ForMatchConfirmed(uuid.NewString(), userID, partnerName, conn.ID)
		if err != nil {
			h.log.Warn("failed to build notification", logger.Err(err))
			continue
		}
		if err := h.notificationRepo.Create(ctx, n); err != nil {
			h.log.Warn("failed to save notification",
				logger.String("notification_id", n.ID),
				logger.Err(err))
		}
	}
}

func (h *RespondMatchRequestHandler) notifyRejected(ctx context.Context, req *match.Request) {
	n, err := notification.ForMatchRejected(uuid.NewString(), req.SenderID, req.ID)
	if err != nil {
		h.log.Warn("failed to build notification", logger.Err(err))
		return
	}
	if err := h.notificationRepo.Create(ctx, n); err != nil {
		h.log.Warn("failed to save notification",
			logger.String("notification_id", n.ID),
			logger.Err(err))
	}
}
