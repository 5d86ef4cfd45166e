package services

import (
	"time"

	"github.com/ddongsuya/cro-project-tracker-sub000/logging"
	"github.com/ddongsuya/cro-project-tracker-sub000/models"

	"github.com/sony/gobreaker"
)

// ActivityStore is the persistence backend for the activity log.
type ActivityStore interface {
	CreateActivity(activity *models.Activity) error
	GetActivitiesByClient(clientID string) ([]models.Activity, error)
}

// ActivityService writes activity events without ever blocking or failing a
// mutation: writes happen on their own goroutine behind a circuit breaker,
// and a broken log backend only costs log lines.
type ActivityService struct {
	store   ActivityStore
	breaker *gobreaker.CircuitBreaker
}

func NewActivityService(store ActivityStore) *ActivityService {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "activity-log",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logging.Logger.Warnf("Event ID: ACTIVITY_BREAKER_STATE, Description: Circuit breaker %s moved from %s to %s", name, from, to)
		},
	})
	return &ActivityService{store: store, breaker: breaker}
}

// Record persists the event fire-and-forget.
func (s *ActivityService) Record(activity models.Activity) {
	go func() {
		_, err := s.breaker.Execute(func() (interface{}, error) {
			return nil, s.store.CreateActivity(&activity)
		})
		if err != nil {
			logging.Logger.Warnf("Event ID: ACTIVITY_WRITE_FAILED, Description: Dropped activity %s: %v", activity.Type, err)
		}
	}()
}

// History returns the logged activities for one client, newest first.
func (s *ActivityService) History(clientID string) ([]models.Activity, error) {
	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.store.GetActivitiesByClient(clientID)
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.Activity), nil
}
