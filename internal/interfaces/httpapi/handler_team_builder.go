package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/squad-manager/internal/usecase"
)

func (h *Handler) SuggestTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "SuggestTeam")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	eventID := strings.TrimSpace(r.PathValue("eventID"))

	var req suggestTeamRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.teamBuilder.Suggest(ctx, usecase.SuggestInput{
		TeamID:           teamID,
		EventID:          eventID,
		Prompt:           req.Prompt,
		GameFormat:       req.GameFormat,
		GameDuration:     req.GameDuration,
		TeamNumber:       req.TeamNumber,
		SquadPlayerIDs:   req.SquadPlayerIDs,
		CurrentFormation: req.CurrentFormation,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "team builder suggestion failed", "team_id", teamID, "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, suggestionDTO{
		Periods:    periodsToDTO(result.Periods),
		Reasoning:  result.Reasoning,
		Unresolved: nonNilStrings(result.Unresolved),
	})
}

func (h *Handler) ApplySelection(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "ApplySelection")
	defer span.End()

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	eventID := strings.TrimSpace(r.PathValue("eventID"))

	var req applySelectionRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	selection, err := h.teamBuilder.Apply(ctx, usecase.ApplyInput{
		TeamID:     teamID,
		EventID:    eventID,
		GameFormat: req.GameFormat,
		Periods:    periodsFromRequest(req.Periods),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "apply selection failed", "team_id", teamID, "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, selectionToDTO(selection))
}

func (h *Handler) GetSelection(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "GetSelection")
	defer span.End()

	eventID := strings.TrimSpace(r.PathValue("eventID"))
	selection, err := h.teamBuilder.GetSelection(ctx, eventID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, selectionToDTO(selection))
}
