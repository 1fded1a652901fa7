package usecase

import (
	"errors"
	"testing"

	"github.com/riskibarqy/squad-manager/internal/domain/event"
	"github.com/riskibarqy/squad-manager/internal/domain/invitation"
	"github.com/riskibarqy/squad-manager/internal/domain/roster"
	"github.com/riskibarqy/squad-manager/internal/infrastructure/repository/memory"
	eventmock "github.com/riskibarqy/squad-manager/internal/mocks/domain/event"
	invitationmock "github.com/riskibarqy/squad-manager/internal/mocks/domain/invitation"
	rostermock "github.com/riskibarqy/squad-manager/internal/mocks/domain/roster"
	"github.com/stretchr/testify/mock"
)

func TestInvitationService_DetectPolicy_RosterErrorUsingMockery(t *testing.T) {
	t.Parallel()

	eventRepo := eventmock.NewRepository(t)
	rosterRepo := rostermock.NewRepository(t)
	invitationRepo := invitationmock.NewRepository(t)
	service := NewInvitationService(eventRepo, rosterRepo, invitationRepo, memory.NewAvailabilityRepository(nil), nil, nil)

	storeErr := errors.New("connection reset")
	eventRepo.
		On("GetByID", mock.Anything, "e1").
		Return(event.Event{ID: "e1", TeamID: "t1"}, true, nil).
		Once()
	rosterRepo.
		On("ListPlayersByTeam", mock.Anything, "t1").
		Return(nil, storeErr).
		Once()
	rosterRepo.
		On("ListStaffByTeam", mock.Anything, "t1").
		Return([]roster.Staff{}, nil).
		Maybe()
	invitationRepo.
		On("ListByEvent", mock.Anything, "e1").
		Return([]invitation.Invitation{}, nil).
		Maybe()

	_, err := service.DetectPolicy(t.Context(), "t1", "e1")
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected roster error to propagate, got %v", err)
	}
}

func TestInvitationService_ChangePolicy_ReplacesWithStaffRowsUsingMockery(t *testing.T) {
	t.Parallel()

	eventRepo := eventmock.NewRepository(t)
	rosterRepo := rostermock.NewRepository(t)
	invitationRepo := invitationmock.NewRepository(t)
	service := NewInvitationService(eventRepo, rosterRepo, invitationRepo, memory.NewAvailabilityRepository(nil), nil, nil)

	eventRepo.
		On("GetByID", mock.Anything, "e1").
		Return(event.Event{ID: "e1", TeamID: "t1"}, true, nil).
		Once()
	rosterRepo.
		On("ListPlayersByTeam", mock.Anything, "t1").
		Return([]roster.Player{{ID: "p1", TeamID: "t1"}}, nil).
		Once()
	rosterRepo.
		On("ListStaffByTeam", mock.Anything, "t1").
		Return([]roster.Staff{{ID: "s1", TeamID: "t1"}, {ID: "s2", TeamID: "t1"}}, nil).
		Once()
	invitationRepo.
		On("ReplaceForEvent", mock.Anything, "e1", mock.MatchedBy(func(rows []invitation.Invitation) bool {
			if len(rows) != 2 {
				return false
			}
			for _, r := range rows {
				if r.InviteeType != invitation.InviteeStaff || r.PlayerID != "" || r.EventID != "e1" {
					return false
				}
			}
			return true
		})).
		Return(nil).
		Once()

	got, err := service.ChangePolicy(t.Context(), ChangePolicyInput{TeamID: "t1", EventID: "e1", Policy: invitation.PolicyStaffOnly})
	if err != nil {
		t.Fatalf("change policy: %v", err)
	}
	if got.Policy != invitation.PolicyStaffOnly {
		t.Fatalf("unexpected policy: got=%s want=%s", got.Policy, invitation.PolicyStaffOnly)
	}
}
