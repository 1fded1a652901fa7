package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/riskibarqy/squad-manager/internal/usecase"
)

// ListGameFormats lists every supported format with its default formation.
func (h *Handler) ListGameFormats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "ListGameFormats")
	defer span.End()

	catalog := h.teamBuilder.Catalog()
	formats := catalog.GameFormats()
	items := make([]formationListDTO, 0, len(formats))
	for _, gameFormat := range formats {
		defaultID, _ := catalog.DefaultFormation(gameFormat)
		items = append(items, formationListDTO{
			GameFormat: gameFormat,
			Default:    defaultID,
			Formations: catalog.Formations(gameFormat),
		})
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) ListFormations(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "ListFormations")
	defer span.End()

	gameFormat := strings.TrimSpace(r.PathValue("gameFormat"))
	catalog := h.teamBuilder.Catalog()
	ids := catalog.Formations(gameFormat)
	if len(ids) == 0 {
		writeError(ctx, w, fmt.Errorf("%w: game format %q", usecase.ErrNotFound, gameFormat))
		return
	}

	defaultID, _ := catalog.DefaultFormation(gameFormat)
	writeSuccess(ctx, w, http.StatusOK, formationListDTO{
		GameFormat: gameFormat,
		Default:    defaultID,
		Formations: ids,
	})
}

// GetFormation returns the template positions. Unknown pairs are a 404, never a guessed template.
func (h *Handler) GetFormation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "GetFormation")
	defer span.End()

	gameFormat := strings.TrimSpace(r.PathValue("gameFormat"))
	formationID := strings.TrimSpace(r.PathValue("formationID"))
	positions, ok := h.teamBuilder.Catalog().Lookup(gameFormat, formationID)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: formation %q for game format %q", usecase.ErrNotFound, formationID, gameFormat))
		return
	}

	items := make([]formationPositionDTO, 0, len(positions))
	for _, p := range positions {
		items = append(items, formationPositionDTO{Name: p.Name, X: p.X, Y: p.Y})
	}
	writeSuccess(ctx, w, http.StatusOK, formationDTO{
		GameFormat: gameFormat,
		ID:         formationID,
		Positions:  items,
	})
}
