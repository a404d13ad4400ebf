package audit

import (
	"context"
	"time"

	"github.com/Tanish6738/project-management-sub001/logging"

	"github.com/gocql/gocql"
)

// CassandraRecorder appends audit events to a Cassandra table keyed by actor
// and clustered newest-first, mirroring a write-heavy notification store.
type CassandraRecorder struct {
	session *gocql.Session
}

// NewCassandraRecorder connects to the cluster, creates the audit keyspace
// and table if missing, and returns a ready recorder.
func NewCassandraRecorder(host string) (*CassandraRecorder, error) {
	cluster := gocql.NewCluster(host)
	cluster.Keyspace = "system"
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, err
	}

	err = session.Query(
		`CREATE KEYSPACE IF NOT EXISTS audit
         WITH replication = {
             'class': 'SimpleStrategy',
             'replication_factor': 1
         }`).Exec()
	if err != nil {
		session.Close()
		return nil, err
	}
	session.Close()

	cluster.Keyspace = "audit"
	cluster.Consistency = gocql.One
	session, err = cluster.CreateSession()
	if err != nil {
		return nil, err
	}

	err = session.Query(
		`CREATE TABLE IF NOT EXISTS audit_events (
			id UUID,
			actor_id TEXT,
			action TEXT,
			target_type TEXT,
			target_id TEXT,
			details TEXT,
			created_at TIMESTAMP,
			PRIMARY KEY ((actor_id), created_at, id)
		) WITH CLUSTERING ORDER BY (created_at DESC, id ASC)`).Exec()
	if err != nil {
		session.Close()
		return nil, err
	}

	logging.Logger.Info("Event ID: AUDIT_SINK_READY, Description: Connected to Cassandra audit keyspace.")
	return &CassandraRecorder{session: session}, nil
}

func (r *CassandraRecorder) Record(_ context.Context, event Event) {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	err := r.session.Query(
		`INSERT INTO audit_events (id, actor_id, action, target_type, target_id, details, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		gocql.TimeUUID(), event.ActorID, event.Action, event.TargetType, event.TargetID, event.Details, event.CreatedAt,
	).Exec()
	if err != nil {
		logging.Logger.Warnf("Event ID: AUDIT_WRITE_FAILED, Description: Failed to append audit event for action %s: %v", event.Action, err)
	}
}

// Close shuts down the Cassandra session.
func (r *CassandraRecorder) Close() {
	r.session.Close()
}
