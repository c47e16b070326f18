package service

import (
	"context"
	"time"

	"cube_navigator/internal/models"
	"cube_navigator/internal/repository"
)

type MonitoringService struct {
	stateRepo repository.StateRepo
}

func NewMonitoringService(stateRepo repository.StateRepo) *MonitoringService {
	return &MonitoringService{stateRepo: stateRepo}
}

// GetState returns the latest persisted robot state, or a baseline snapshot
// at the origin if telemetry has not saved one yet.
func (s *MonitoringService) GetState(ctx context.Context) (models.RobotState, error) {
	state, err := s.stateRepo.Load(ctx)
	if err != nil {
		return models.RobotState{}, err
	}
	if state.ID == 0 {
		return baselineState(), nil
	}
	state.UpdatedAt = toUTC(state.UpdatedAt)
	return state, nil
}

// baselineState is the state reported for an uninitialized DB.
func baselineState() models.RobotState {
	return models.RobotState{
		ID:        1, // single-row table
		UpdatedAt: time.Now().UTC(),
	}
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}
