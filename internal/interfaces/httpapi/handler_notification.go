package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/squad-manager/internal/usecase"
)

// SendReminder pushes a reminder now. Without userIds it targets users still pending.
func (h *Handler) SendReminder(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "SendReminder")
	defer span.End()

	eventID := strings.TrimSpace(r.PathValue("eventID"))

	var req manualReminderRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	counts, err := h.notifications.SendManualReminder(ctx, usecase.ManualReminderInput{
		EventID: eventID,
		UserIDs: req.UserIDs,
		Title:   req.Title,
		Body:    req.Body,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "manual reminder failed", "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, recipientCountsToDTO(counts))
}
