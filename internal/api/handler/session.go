package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/converso/chat-api/internal/api/response"
	"github.com/converso/chat-api/internal/domain"
	"github.com/converso/chat-api/internal/service"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

type SessionHandler struct {
	sessionService *service.SessionService
}

func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// Create starts a new empty session
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionService.CreateSession(r.Context())
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, map[string]string{"session_id": session.ID.Hex()})
}

// Get returns a single session by document id
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "sessionID"))
	if err != nil {
		response.BadRequest(w, "Invalid session ID")
		return
	}

	session, err := h.sessionService.GetSession(r.Context(), id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		response.NotFound(w, "Session not found")
		return
	}
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, map[string]any{
		"id":         session.ID.Hex(),
		"created_at": session.CreatedAt,
		"updated_at": session.UpdatedAt,
		"active":     session.Active,
	})
}

// List returns a filtered, paginated page of session summaries
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	params, errDetail := parseListParams(r)
	if errDetail != "" {
		response.BadRequest(w, errDetail)
		return
	}

	page, err := h.sessionService.ListSessions(r.Context(), params)
	if errors.Is(err, domain.ErrInvalidDateRange) {
		response.BadRequest(w, "Invalid date range: end_date cannot be earlier than start_date")
		return
	}
	if err != nil {
		response.InternalError(w, "Error listing chat sessions: "+err.Error())
		return
	}

	response.OK(w, page)
}

// parseListParams translates the listing query string into service params.
// It returns a non-empty detail string on the first invalid parameter.
func parseListParams(r *http.Request) (service.ListSessionsParams, string) {
	q := r.URL.Query()
	params := service.ListSessionsParams{
		UserID:    q.Get("user_id"),
		SessionID: q.Get("session_id"),
		Skip:      0,
		Limit:     defaultListLimit,
	}

	if v := q.Get("client_id"); v != "" {
		oid, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			return params, "Invalid client_id"
		}
		params.Client = &oid
	}
	if v := q.Get("client_channel"); v != "" {
		oid, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			return params, "Invalid client_channel"
		}
		params.ClientChannel = &oid
	}

	if v := q.Get("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return params, "Invalid active flag"
		}
		params.Active = &active
	}
	if v := q.Get("handover"); v != "" {
		handover, err := strconv.ParseBool(v)
		if err != nil {
			return params, "Invalid handover flag"
		}
		params.Handover = &handover
	}

	if v := q.Get("start_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return params, "Invalid start_date"
		}
		params.StartDate = &t
	}
	if v := q.Get("end_date"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return params, "Invalid end_date"
		}
		params.EndDate = &t
	}

	if v := q.Get("skip"); v != "" {
		skip, err := strconv.ParseInt(v, 10, 64)
		if err != nil || skip < 0 {
			return params, "skip must be >= 0"
		}
		params.Skip = skip
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.ParseInt(v, 10, 64)
		if err != nil || limit < 1 || limit > maxListLimit {
			return params, "limit must be between 1 and 100"
		}
		params.Limit = limit
	}

	return params, ""
}
