package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lora213/buddyhub/internal/application/command"
	"github.com/lora213/buddyhub/internal/application/query"
	"github.com/lora213/buddyhub/internal/domain/match"
	"github.com/lora213/buddyhub/internal/domain/rubric"
	"github.com/lora213/buddyhub/internal/domain/shared"
	"github.com/lora213/buddyhub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & STATUS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot serves the root endpoint with basic API information.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":        "BuddyHub API",
		"version":     "v1",
		"description": "REST API for BuddyHub - find your study buddy",
		"endpoints": map[string]string{
			"health":         "/health",
			"register":       "/api/v1/users",
			"matches":        "/api/v1/users/{id}/matches",
			"match_requests": "/api/v1/match-requests",
			"notifications":  "/api/v1/users/{id}/notifications",
		},
	}

	writeJSON(w, http.StatusOK, info)
}

// handleHealth handles the health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	// Default health response
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"uptime":  s.Uptime().String(),
		"version": "v1",
	})
}

// handleReady handles the readiness probe endpoint (for Kubernetes).
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker != nil {
		status := s.deps.HealthChecker.Check(r.Context())
		if !status.Ready {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": status.Message,
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive handles the liveness probe endpoint (for Kubernetes).
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// USER & PROFILE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type registerUserRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	FullName       string `json:"full_name"`
	GitHubUsername string `json:"github_username,omitempty"`
	LinkedInURL    string `json:"linkedin_url,omitempty"`
	Bio            string `json:"bio,omitempty"`
}

// handleRegisterUser handles POST /api/v1/users
func (s *Server) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.RegisterUserHandler.Handle(r.Context(), command.RegisterUserCommand{
		Email:          req.Email,
		Password:       req.Password,
		FullName:       req.FullName,
		GitHubUsername: req.GitHubUsername,
		LinkedInURL:    req.LinkedInURL,
		Bio:            req.Bio,
		CorrelationID:  getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"user_id": string(result.UserID)})
}

// handleGetProfile handles GET /api/v1/users/{id}
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetProfileHandler.Handle(r.Context(), query.GetProfileQuery{
		UserID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetScores handles GET /api/v1/users/{id}/scores
func (s *Server) handleGetScores(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetScoresHandler.Handle(r.Context(), query.GetScoresQuery{
		UserID:   r.PathValue("id"),
		Category: rubric.Category(getQueryParam(r, "category", "")),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleAnalyzeProfile handles POST /api/v1/users/{id}/analyze
func (s *Server) handleAnalyzeProfile(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.AnalyzeProfileHandler.Handle(r.Context(), command.AnalyzeProfileCommand{
		UserID:        r.PathValue("id"),
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"technical_scores": result.TechnicalScores,
		"social_scores":    result.SocialScores,
	})
}

type updatePreferencesRequest struct {
	LearningStyle           *string `json:"learning_style,omitempty"`
	CollaborationPreference *int    `json:"collaboration_preference,omitempty"`
	MentorshipType          *string `json:"mentorship_type,omitempty"`
}

// handleUpdatePreferences handles PUT /api/v1/users/{id}/preferences
func (s *Server) handleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var req updatePreferencesRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.UpdatePreferencesHandler.Handle(r.Context(), command.UpdatePreferencesCommand{
		UserID:                  r.PathValue("id"),
		LearningStyle:           req.LearningStyle,
		CollaborationPreference: req.CollaborationPreference,
		MentorshipType:          req.MentorshipType,
		CorrelationID:           getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"stored": result.Stored})
}

// ══════════════════════════════════════════════════════════════════════════════
// MATCHING HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleFindMatches handles GET /api/v1/users/{id}/matches
func (s *Server) handleFindMatches(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.FindMatchesHandler.Handle(r.Context(), query.FindMatchesQuery{
		UserID:  r.PathValue("id"),
		Limit:   getQueryParamInt(r, "limit", s.config.MatchDefaultLimit),
		Refresh: getQueryParamBool(r, "refresh"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetSuggestions handles GET /api/v1/users/{id}/suggestions
func (s *Server) handleGetSuggestions(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetSuggestionsHandler.Handle(r.Context(), query.GetSuggestionsQuery{
		UserID:     r.PathValue("id"),
		Pagination: paginationParams(r),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type sendMatchRequestRequest struct {
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
}

// handleSendMatchRequest handles POST /api/v1/match-requests
func (s *Server) handleSendMatchRequest(w http.ResponseWriter, r *http.Request) {
	var req sendMatchRequestRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.SendMatchRequestHandler.Handle(r.Context(), command.SendMatchRequestCommand{
		SenderID:      req.SenderID,
		ReceiverID:    req.ReceiverID,
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	status := http.StatusCreated
	if result.AutoAccepted {
		// Mutual interest: no new request was created, the reciprocal
		// one was accepted instead.
		status = http.StatusOK
	}

	writeJSON(w, status, map[string]interface{}{
		"request_id":    result.RequestID,
		"status":        result.Status,
		"auto_accepted": result.AutoAccepted,
		"connection_id": result.ConnectionID,
	})
}

// handleAcceptMatchRequest handles POST /api/v1/match-requests/{id}/accept
func (s *Server) handleAcceptMatchRequest(w http.ResponseWriter, r *http.Request) {
	s.respondMatchRequest(w, r, true)
}

// handleRejectMatchRequest handles POST /api/v1/match-requests/{id}/reject
func (s *Server) handleRejectMatchRequest(w http.ResponseWriter, r *http.Request) {
	s.respondMatchRequest(w, r, false)
}

type respondMatchRequestRequest struct {
	ActorID string `json:"actor_id"`
}

func (s *Server) respondMatchRequest(w http.ResponseWriter, r *http.Request, accept bool) {
	var req respondMatchRequestRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.RespondMatchRequestHandler.Handle(r.Context(), command.RespondMatchRequestCommand{
		RequestID:     r.PathValue("id"),
		ActorID:       req.ActorID,
		Accept:        accept,
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"request_id":    result.RequestID,
		"status":        result.Status,
		"connection_id": result.ConnectionID,
	})
}

// handleListMatchRequests handles GET /api/v1/users/{id}/match-requests
func (s *Server) handleListMatchRequests(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ListMatchRequestsHandler.Handle(r.Context(), query.ListMatchRequestsQuery{
		UserID:     r.PathValue("id"),
		Direction:  match.Direction(getQueryParam(r, "direction", "")),
		Status:     match.RequestStatus(getQueryParam(r, "status", "")),
		Pagination: paginationParams(r),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleListConnections handles GET /api/v1/users/{id}/connections
func (s *Server) handleListConnections(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ListConnectionsHandler.Handle(r.Context(), query.ListConnectionsQuery{
		UserID:     r.PathValue("id"),
		Pagination: paginationParams(r),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListNotifications handles GET /api/v1/users/{id}/notifications
func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ListNotificationsHandler.Handle(r.Context(), query.ListNotificationsQuery{
		UserID:     r.PathValue("id"),
		UnreadOnly: getQueryParamBool(r, "unread"),
		Pagination: paginationParams(r),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type markNotificationRequest struct {
	UserID string `json:"user_id"`
}

// handleMarkNotificationRead handles POST /api/v1/notifications/{id}/read
func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	var req markNotificationRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.MarkNotificationsHandler.HandleOne(r.Context(), command.MarkNotificationReadCommand{
		NotificationID: r.PathValue("id"),
		UserID:         req.UserID,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"updated": result.Updated})
}

// handleMarkAllNotificationsRead handles POST /api/v1/users/{id}/notifications/read-all
func (s *Server) handleMarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.MarkNotificationsHandler.HandleAll(r.Context(), command.MarkAllNotificationsReadCommand{
		UserID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"updated": result.Updated})
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST & ERROR HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// decodeBody decodes a JSON request body, writing a 400 on failure.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON payload")
		return false
	}
	return true
}

// writeDomainError maps application errors onto HTTP status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	// Duplicate match request: 409 carrying the existing request's
	// status and direction so the client can render "already pending".
	var conflict *match.ConflictError
	if errors.As(err, &conflict) {
		writeJSONErrorWithDetails(w, http.StatusConflict, "match_request_exists", conflict.Error(),
			map[string]string{
				"existing_id": conflict.ExistingID,
				"status":      string(conflict.Status),
				"direction":   string(conflict.Direction),
			})
		return
	}

	switch {
	case shared.IsValidation(err):
		writeJSONError(w, http.StatusBadRequest, "validation_error", err.Error())

	case shared.IsNotFound(err):
		writeJSONError(w, http.StatusNotFound, "not_found", err.Error())

	case shared.IsConflict(err):
		writeJSONError(w, http.StatusConflict, "conflict", err.Error())

	case shared.IsForbidden(err):
		writeJSONError(w, http.StatusForbidden, "forbidden", err.Error())

	case shared.IsStateTransition(err):
		writeJSONError(w, http.StatusConflict, "invalid_state", err.Error())

	case errors.Is(err, shared.ErrServiceUnavailable), errors.Is(err, shared.ErrRateLimited):
		writeJSONError(w, http.StatusBadGateway, "upstream_error", err.Error())

	default:
		s.logger.Error("unhandled request error",
			logger.String("path", r.URL.Path),
			logger.String("request_id", getRequestID(r.Context())),
			logger.Err(err),
		)
		writeJSONError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

// paginationParams reads limit/offset query parameters.
func paginationParams(r *http.Request) shared.Pagination {
	return shared.Pagination{
		Limit:  getQueryParamInt(r, "limit", 0),
		Offset: getQueryParamInt(r, "offset", 0),
	}
}
