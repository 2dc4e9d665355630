package models_test

import (
	"testing"

	"github.com/mentorify/mentorify-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestSessionStatus_IsTerminal(t *testing.T) {
	assert.False(t, models.SessionPending.IsTerminal())
	assert.False(t, models.SessionConfirmed.IsTerminal())
	assert.True(t, models.SessionCompleted.IsTerminal())
	assert.True(t, models.SessionCancelled.IsTerminal())
}

func TestSessionStatus_CanTransitionTo(t *testing.T) {
	all := []models.SessionStatus{
		models.SessionPending,
		models.SessionConfirmed,
		models.SessionCompleted,
		models.SessionCancelled,
	}

	allowed := map[models.SessionStatus][]models.SessionStatus{
		models.SessionPending:   {models.SessionConfirmed, models.SessionCancelled},
		models.SessionConfirmed: {models.SessionCompleted, models.SessionCancelled},
		models.SessionCompleted: {},
		models.SessionCancelled: {},
	}

	for from, targets := range allowed {
		ok := make(map[models.SessionStatus]bool, len(targets))
		for _, to := range targets {
			ok[to] = true
		}
		for _, to := range all {
			assert.Equal(t, ok[to], from.CanTransitionTo(to),
				"transition %s -> %s", from, to)
		}
	}
}

func TestActiveSessionStatuses(t *testing.T) {
	assert.ElementsMatch(t,
		[]models.SessionStatus{models.SessionPending, models.SessionConfirmed},
		models.ActiveSessionStatuses)
}
