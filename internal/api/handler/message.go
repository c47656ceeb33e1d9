package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/converso/chat-api/internal/api/response"
	"github.com/converso/chat-api/internal/domain"
	"github.com/converso/chat-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type MessageHandler struct {
	messageService *service.MessageService
}

func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// Create stores one message and starts the configured workflow
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.MessageCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if !validateInput(w, input) {
		return
	}

	view, err := h.messageService.CreateMessage(r.Context(), input)
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, view)
}

// List returns messages filtered by session and/or sender
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var lastN int64
	if v := q.Get("last_n"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			response.BadRequest(w, "Invalid last_n")
			return
		}
		lastN = n
	}

	views, err := h.messageService.ListMessages(r.Context(), q.Get("session_id"), q.Get("user_id"), lastN)
	if errors.Is(err, domain.ErrSessionNotFound) {
		response.NotFound(w, "Chat Session not found")
		return
	}
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, views)
}

// Update edits a message addressed by document id or external id
func (h *MessageHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input domain.MessageCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if !validateInput(w, input) {
		return
	}

	view, err := h.messageService.UpdateMessage(r.Context(), chi.URLParam(r, "messageID"), input)
	if errors.Is(err, domain.ErrMessageNotFound) {
		response.NotFound(w, "Message not found")
		return
	}
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, view)
}

// CreateBulk stores a batch of messages and always starts the chat workflow
// for the most recent one
func (h *MessageHandler) CreateBulk(w http.ResponseWriter, r *http.Request) {
	var input domain.BulkMessageCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if !validateInput(w, input) {
		return
	}

	views, err := h.messageService.CreateBulkMessages(r.Context(), input)
	if err != nil {
		response.InternalError(w, err.Error())
		return
	}

	response.OK(w, views)
}

// validateInput runs struct validation and writes a 400 with per-field
// details on failure. Returns false when the request was rejected.
func validateInput(w http.ResponseWriter, input any) bool {
	err := validate.Struct(input)
	if err == nil {
		return true
	}

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		errs := make(map[string]string)
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errs[field] = "field is required"
			case "oneof":
				errs[field] = "must be one of: " + e.Param()
			case "min":
				errs[field] = "must have at least " + e.Param() + " items"
			case "len", "hexadecimal":
				errs[field] = "must be a 24 character hex id"
			default:
				errs[field] = "validation failed on " + e.Tag()
			}
		}
		response.BadRequest(w, errs)
		return false
	}

	response.BadRequest(w, err.Error())
	return false
}
