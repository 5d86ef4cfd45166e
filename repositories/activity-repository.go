package repositories

import (
	"fmt"
	"os"

	"github.com/ddongsuya/cro-project-tracker-sub000/logging"
	"github.com/ddongsuya/cro-project-tracker-sub000/models"

	"github.com/gocql/gocql"
)

// ActivityRepo is the append-only activity log, backed by Cassandra.
type ActivityRepo struct {
	session *gocql.Session
}

func NewActivityRepo() (*ActivityRepo, error) {
	db := os.Getenv("CASS_DB")
	if db == "" {
		db = "127.0.0.1"
	}

	cluster := gocql.NewCluster(db)
	cluster.Keyspace = "system"
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, err
	}

	err = session.Query(
		`CREATE KEYSPACE IF NOT EXISTS tracking
         WITH replication = {
             'class': 'SimpleStrategy',
             'replication_factor': 1
         }`).Exec()
	if err != nil {
		return nil, fmt.Errorf("failed to create keyspace: %v", err)
	}
	session.Close()

	cluster.Keyspace = "tracking"
	cluster.Consistency = gocql.One
	session, err = cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to tracking keyspace: %v", err)
	}

	logging.Logger.Info("Event ID: ACTIVITY_REPO_CONNECTED, Description: Connected to Cassandra tracking keyspace")
	return &ActivityRepo{session: session}, nil
}

func (r *ActivityRepo) CloseSession() {
	r.session.Close()
}

// CreateTable creates the activities table, keyed so that per-client
// history reads come back newest first.
func (r *ActivityRepo) CreateTable() error {
	return r.session.Query(
		`CREATE TABLE IF NOT EXISTS activities (
			id UUID,
			activity_type TEXT,
			actor_email TEXT,
			client_id TEXT,
			project_id TEXT,
			created_at TIMESTAMP,
			details TEXT,
			PRIMARY KEY ((client_id), created_at, id)
		) WITH CLUSTERING ORDER BY (created_at DESC, id ASC)`).Exec()
}

func (r *ActivityRepo) CreateActivity(activity *models.Activity) error {
	if activity.ID == "" {
		activity.ID = gocql.TimeUUID().String()
	}

	return r.session.Query(
		`INSERT INTO activities (id, activity_type, actor_email, client_id, project_id, created_at, details)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		activity.ID, string(activity.Type), activity.ActorEmail, activity.ClientID,
		activity.ProjectID, activity.Timestamp, activity.Details,
	).Exec()
}

func (r *ActivityRepo) GetActivitiesByClient(clientID string) ([]models.Activity, error) {
	query := `SELECT id, activity_type, actor_email, client_id, project_id, created_at, details
			  FROM activities WHERE client_id = ?`

	iter := r.session.Query(query, clientID).Iter()
	var activities []models.Activity
	var activity models.Activity
	var activityType string

	for iter.Scan(&activity.ID, &activityType, &activity.ActorEmail, &activity.ClientID,
		&activity.ProjectID, &activity.Timestamp, &activity.Details) {
		activity.Type = models.ActivityType(activityType)
		activities = append(activities, activity)
	}

	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("failed to read activities: %v", err)
	}

	return activities, nil
}
