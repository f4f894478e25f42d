package services

import (
	"context"
	"time"

	"stationrecon/internal/session"
	"stationrecon/pkg/contracts"
	"stationrecon/pkg/contracts/domain"
)

// HealthService reports liveness and session state.
type HealthService struct {
	store     *session.Store
	startedAt time.Time
}

// NewHealthService creates the health service.
func NewHealthService(store *session.Store) *HealthService {
	return &HealthService{store: store, startedAt: time.Now()}
}

// HealthStatus is the health endpoint payload.
type HealthStatus struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Uptime    string            `json:"uptime"`
	Timestamp time.Time         `json:"timestamp"`
	Session   SessionStatus     `json:"session"`
	Build     map[string]string `json:"build,omitempty"`
}

// SessionStatus describes which slots are populated.
type SessionStatus struct {
	AssetInventoryLoaded bool `json:"asset_inventory_loaded"`
	HydexLoaded          bool `json:"hydex_loaded"`
	ReadyToCompare       bool `json:"ready_to_compare"`
}

// Check returns the current health snapshot. The service is stateless beyond
// the session slots, so it is healthy whenever it can answer.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	assetInv, hydex := s.store.Snapshot()
	return HealthStatus{
		Status:    "healthy",
		Version:   contracts.Version,
		Uptime:    time.Since(s.startedAt).Round(time.Second).String(),
		Timestamp: time.Now().UTC(),
		Session: SessionStatus{
			AssetInventoryLoaded: assetInv != nil,
			HydexLoaded:          hydex != nil,
			ReadyToCompare:       assetInv != nil && hydex != nil,
		},
	}
}

// SlotLoaded reports whether one source slot is populated.
func (s *HealthService) SlotLoaded(source domain.Source) bool {
	return s.store.Get(source) != nil
}
