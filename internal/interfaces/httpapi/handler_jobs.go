package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/squad-manager/internal/usecase"
)

// RunDispatchNotificationsJob sends every due row, not only the one named in the payload.
// Queue callbacks and the poller therefore converge on the same work.
func (h *Handler) RunDispatchNotificationsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "RunDispatchNotificationsJob")
	defer span.End()

	if h.notifications == nil {
		writeError(ctx, w, fmt.Errorf("%w: notification service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req internalJobRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.notifications.DispatchDue(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run dispatch notifications job failed",
			"scheduled_notification_id", req.ScheduledNotificationID,
			"dispatch_id", req.DispatchID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "dispatch notifications job completed",
		"scheduled_notification_id", req.ScheduledNotificationID,
		"dispatch_id", req.DispatchID,
		"processed", result.Processed,
	)
	writeSuccess(ctx, w, http.StatusOK, dispatchResultDTO{
		Processed:  result.Processed,
		Sent:       result.Sent,
		Failed:     result.Failed,
		Recipients: recipientCountsToDTO(result.Recipients),
	})
}

func (h *Handler) RunWeeklyNudgesJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startHandlerSpan(r.Context(), "RunWeeklyNudgesJob")
	defer span.End()

	if h.notifications == nil {
		writeError(ctx, w, fmt.Errorf("%w: notification service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req internalJobRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.notifications.ScheduleWeeklyNudges(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run weekly nudges job failed", "dispatch_id", req.DispatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, nudgeResultDTO{
		EventsScanned: result.EventsScanned,
		Scheduled:     result.Scheduled,
		Failed:        result.Failed,
		ScheduledIDs:  nonNilStrings(result.ScheduledIDs),
	})
}
