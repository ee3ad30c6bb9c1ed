package notification

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/frahmantamala/campus-complaints/internal/transport"
)

const allowHeaders = "authorization, x-client-info, apikey, content-type, " +
	"x-supabase-client-platform, x-supabase-client-platform-version, " +
	"x-supabase-client-runtime, x-supabase-client-runtime-version"

// Handler serves the notification endpoint. It only logs the notification it
// would send; delivery is out of scope.
type Handler struct {
	*transport.BaseHandler
	now func() time.Time
}

func NewHandler(baseHandler *transport.BaseHandler) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		now:         time.Now,
	}
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", allowHeaders)
}

// Preflight answers OPTIONS before any body processing.
func (h *Handler) Preflight(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, err)
		return
	}
	if err := req.Validate(); err != nil {
		h.fail(w, err)
		return
	}

	h.Logger.Info("email notification would be sent",
		"to", req.UserEmail,
		"complaint_id", req.ComplaintID,
		"complaint_title", req.ComplaintTitle,
		"old_status", req.OldStatus,
		"new_status", req.NewStatus)
	if req.Resolution != "" {
		h.Logger.Info("notification resolution", "complaint_id", req.ComplaintID, "resolution", req.Resolution)
	}

	n := Build(req, h.now())
	h.Logger.Debug("notification data", "notification", n)

	h.WriteJSON(w, http.StatusOK, Response{
		Success:      true,
		Message:      loggedMessage,
		Notification: n,
	})
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	h.Logger.Error("send-notification failed", "error", err)
	h.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
}
