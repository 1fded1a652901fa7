package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/squad-manager/internal/domain/availability"
	"github.com/riskibarqy/squad-manager/internal/domain/invitation"
	"github.com/riskibarqy/squad-manager/internal/usecase"
)

func (h *Handler) GetInvitationPolicy(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "GetInvitationPolicy")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	eventID := strings.TrimSpace(r.PathValue("eventID"))
	detection, err := h.invitations.DetectPolicy(ctx, teamID, eventID)
	if err != nil {
		h.logger.WarnContext(ctx, "detect invitation policy failed", "team_id", teamID, "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, detectionToDTO(detection))
}

func (h *Handler) ChangeInvitationPolicy(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "ChangeInvitationPolicy")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	eventID := strings.TrimSpace(r.PathValue("eventID"))

	var req changePolicyRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	detection, err := h.invitations.ChangePolicy(ctx, usecase.ChangePolicyInput{
		TeamID:    teamID,
		EventID:   eventID,
		Policy:    invitation.Policy(req.Policy),
		PlayerIDs: req.PlayerIDs,
		StaffIDs:  req.StaffIDs,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "change invitation policy failed", "team_id", teamID, "event_id", eventID, "policy", req.Policy, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, detectionToDTO(detection))
}

func (h *Handler) GetAvailabilitySummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "GetAvailabilitySummary")
	defer span.End()

	eventID := strings.TrimSpace(r.PathValue("eventID"))
	summary, err := h.invitations.AvailabilitySummary(ctx, eventID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, availabilitySummaryDTO{
		Available:   summary.Available,
		Unavailable: summary.Unavailable,
		Pending:     summary.Pending,
		Total:       summary.Total,
	})
}

func (h *Handler) RespondAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "RespondAvailability")
	defer span.End()

	eventID := strings.TrimSpace(r.PathValue("eventID"))
	userID := strings.TrimSpace(r.PathValue("userID"))

	var req respondAvailabilityRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	record, err := h.invitations.RespondAvailability(ctx, usecase.RespondAvailabilityInput{
		EventID: eventID,
		UserID:  userID,
		Status:  availability.Status(req.Status),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "respond availability failed", "event_id", eventID, "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, availabilityRecordDTO{
		EventID:   record.EventID,
		UserID:    record.UserID,
		Status:    string(record.Status),
		UpdatedAt: record.UpdatedAt,
	})
}

// RespondRSVP serves the yes/no quick actions of availability notifications. The token in
// the query string identifies the user and event, so no user id is taken from the path.
func (h *Handler) RespondRSVP(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "RespondRSVP")
	defer span.End()

	answer := strings.TrimSpace(r.PathValue("answer"))
	record, err := h.invitations.RespondByToken(ctx, usecase.RSVPInput{
		Token:  r.URL.Query().Get("token"),
		Answer: answer,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "rsvp quick action failed", "answer", answer, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, availabilityRecordDTO{
		EventID:   record.EventID,
		UserID:    record.UserID,
		Status:    string(record.Status),
		UpdatedAt: record.UpdatedAt,
	})
}
