package audit

import (
	"sort"
	"sync"

	"github.com/isseis/go-iot-risk-gate/internal/gate/gatetypes"
)

// ActionCount represents an action and its occurrence count
type ActionCount struct {
	Action gatetypes.Action
	Count  int
}

// DecisionStatistics tracks authorization outcomes over a session. The gate
// records every decision here; the shell prints a summary when the session
// ends.
type DecisionStatistics struct {
	mu            sync.RWMutex
	totalChecks   int
	allowedCounts map[gatetypes.Action]int
	deniedCounts  map[gatetypes.Action]int
	deniedActors  map[string]bool
}

// NewDecisionStatistics creates a new decision statistics tracker
func NewDecisionStatistics() *DecisionStatistics {
	return &DecisionStatistics{
		allowedCounts: make(map[gatetypes.Action]int),
		deniedCounts:  make(map[gatetypes.Action]int),
		deniedActors:  make(map[string]bool),
	}
}

// RecordDecision records one authorization outcome
func (s *DecisionStatistics) RecordDecision(actorName string, action gatetypes.Action, allowed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalChecks++
	if allowed {
		s.allowedCounts[action]++
		return
	}
	s.deniedCounts[action]++
	s.deniedActors[actorName] = true
}

// TotalChecks returns the total number of decisions recorded
func (s *DecisionStatistics) TotalChecks() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalChecks
}

// TotalDenied returns how many decisions were denials
func (s *DecisionStatistics) TotalDenied() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, c := range s.deniedCounts {
		total += c
	}
	return total
}

// GetDeniedCounts returns the denial count per action
func (s *DecisionStatistics) GetDeniedCounts() map[gatetypes.Action]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[gatetypes.Action]int, len(s.deniedCounts))
	for action, count := range s.deniedCounts {
		counts[action] = count
	}
	return counts
}

// GetTopDeniedActions returns the most denied actions up to the specified limit
func (s *DecisionStatistics) GetTopDeniedActions(limit int) []ActionCount {
	s.mu.RLock()
	defer s.mu.RUnlock()

	actions := make([]ActionCount, 0, len(s.deniedCounts))
	for action, count := range s.deniedCounts {
		actions = append(actions, ActionCount{
			Action: action,
			Count:  count,
		})
	}

	// Sort by count (descending), then by action name (ascending) for deterministic order
	sort.Slice(actions, func(i, j int) bool {
		if actions[i].Count != actions[j].Count {
			return actions[i].Count > actions[j].Count
		}
		return actions[i].Action < actions[j].Action
	})

	if limit > 0 && limit < len(actions) {
		return actions[:limit]
	}
	return actions
}

// GetDeniedActors returns the names of actors that had at least one denial
func (s *DecisionStatistics) GetDeniedActors() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	actors := make([]string, 0, len(s.deniedActors))
	for name := range s.deniedActors {
		actors = append(actors, name)
	}
	sort.Strings(actors)
	return actors
}
