package scheduler

import "go.trai.ch/assemble/internal/core/domain"

// GetStatusMap returns a copy of the internal project status map.
// This is exported for testing purposes only.
func (s *Scheduler) GetStatusMap() map[string]domain.SyncStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	statusMap := make(map[string]domain.SyncStatus, len(s.status))
	for k, v := range s.status {
		statusMap[k] = v
	}
	return statusMap
}
