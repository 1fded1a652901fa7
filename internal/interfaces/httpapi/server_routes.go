package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerFormationRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/formations", handler.ListGameFormats)
	mux.HandleFunc("GET /v1/formations/{gameFormat}", handler.ListFormations)
	mux.HandleFunc("GET /v1/formations/{gameFormat}/{formationID}", handler.GetFormation)
}

func registerTeamBuilderRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/teams/{teamID}/events/{eventID}/team-builder/suggestions", handler.SuggestTeam)
	mux.HandleFunc("PUT /v1/teams/{teamID}/events/{eventID}/selection", handler.ApplySelection)
	mux.HandleFunc("GET /v1/events/{eventID}/selection", handler.GetSelection)
}

func registerInvitationRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams/{teamID}/events/{eventID}/invitations", handler.GetInvitationPolicy)
	mux.HandleFunc("PUT /v1/teams/{teamID}/events/{eventID}/invitations", handler.ChangeInvitationPolicy)
	mux.HandleFunc("GET /v1/events/{eventID}/availability/summary", handler.GetAvailabilitySummary)
	mux.HandleFunc("PUT /v1/events/{eventID}/availability/{userID}", handler.RespondAvailability)
	mux.HandleFunc("POST /v1/rsvp/{answer}", handler.RespondRSVP)
}

func registerNotificationRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/events/{eventID}/reminders", handler.SendReminder)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/dispatch-notifications", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunDispatchNotificationsJob)))
	mux.Handle("POST /v1/internal/jobs/weekly-nudges", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunWeeklyNudgesJob)))
}
