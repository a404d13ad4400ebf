package services

import (
	"context"

	"github.com/Tanish6738/project-management-sub001/logging"
	"github.com/Tanish6738/project-management-sub001/models"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GraphService mirrors task dependency edges into Neo4j so that duplicate
// and cycle checks run over the whole graph. A nil *GraphService is valid
// and skips the mirror: the Mongo document remains the source of truth.
type GraphService struct {
	Driver neo4j.DriverWithContext
}

func NewGraphService(driver neo4j.DriverWithContext) *GraphService {
	return &GraphService{Driver: driver}
}

// EnsureTaskNode creates the task's graph node if missing. Best effort; a
// graph failure never fails the task write.
func (s *GraphService) EnsureTaskNode(ctx context.Context, taskID primitive.ObjectID) {
	if s == nil {
		return
	}
	session := s.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, `MERGE (t:Task {id: $id})`, map[string]any{"id": taskID.Hex()})
		return nil, err
	})
	if err != nil {
		logging.Logger.Warnf("Event ID: GRAPH_NODE_FAILED, Description: Failed to ensure graph node for task %s: %v", taskID.Hex(), err)
	}
}

// RemoveTaskNode detaches and deletes the task's graph node. Best effort.
func (s *GraphService) RemoveTaskNode(ctx context.Context, taskID primitive.ObjectID) {
	if s == nil {
		return
	}
	session := s.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, `MATCH (t:Task {id: $id}) DETACH DELETE t`, map[string]any{"id": taskID.Hex()})
		return nil, err
	})
	if err != nil {
		logging.Logger.Warnf("Event ID: GRAPH_NODE_FAILED, Description: Failed to remove graph node for task %s: %v", taskID.Hex(), err)
	}
}

// AddDependency adds a DEPENDS_ON edge after rejecting edges that would
// close a cycle.
func (s *GraphService) AddDependency(ctx context.Context, taskID, dependsOnID primitive.ObjectID) error {
	if s == nil {
		return nil
	}

	// Make sure both nodes exist before the reachability query.
	s.EnsureTaskNode(ctx, taskID)
	s.EnsureTaskNode(ctx, dependsOnID)

	hasCycle, err := s.createsCycle(ctx, taskID.Hex(), dependsOnID.Hex())
	if err != nil {
		return models.Internal("dependency cycle check failed", err)
	}
	if hasCycle {
		return models.Validation("cannot add dependency: cycle detected")
	}

	session := s.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err = session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (t:Task {id: $taskId}), (d:Task {id: $dependsOnId})
			MERGE (t)-[:DEPENDS_ON]->(d)
		`
		_, err := tx.Run(ctx, query, map[string]any{
			"taskId":      taskID.Hex(),
			"dependsOnId": dependsOnID.Hex(),
		})
		return nil, err
	})
	if err != nil {
		return models.Internal("failed to create dependency edge", err)
	}
	return nil
}

// createsCycle reports whether dependsOn already reaches task through
// DEPENDS_ON edges, which would close a cycle.
func (s *GraphService) createsCycle(ctx context.Context, taskID, dependsOnID string) (bool, error) {
	if taskID == dependsOnID {
		return true, nil
	}
	session := s.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (d:Task {id: $dependsOnId}), (t:Task {id: $taskId})
			RETURN EXISTS((d)-[:DEPENDS_ON*1..]->(t)) AS hasCycle
		`
		res, err := tx.Run(ctx, query, map[string]any{
			"taskId":      taskID,
			"dependsOnId": dependsOnID,
		})
		if err != nil {
			return nil, err
		}
		if res.Next(ctx) {
			val, ok := res.Record().Values[0].(bool)
			if !ok {
				return false, nil
			}
			return val, nil
		}
		return false, nil
	})
	if err != nil {
		return false, err
	}
	return result.(bool), nil
}

// RemoveDependency drops the edge. Best effort; the Mongo pull already
// happened and stands either way.
func (s *GraphService) RemoveDependency(ctx context.Context, taskID, dependsOnID primitive.ObjectID) {
	if s == nil {
		return
	}
	session := s.Driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (t:Task {id: $taskId})-[r:DEPENDS_ON]->(d:Task {id: $dependsOnId})
			DELETE r
		`
		_, err := tx.Run(ctx, query, map[string]any{
			"taskId":      taskID.Hex(),
			"dependsOnId": dependsOnID.Hex(),
		})
		return nil, err
	})
	if err != nil {
		logging.Logger.Warnf("Event ID: GRAPH_EDGE_FAILED, Description: Failed to remove dependency edge %s -> %s: %v", taskID.Hex(), dependsOnID.Hex(), err)
	}
}
