package cypher

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v4/neo4j"
	"github.com/sirupsen/logrus"

	"github.com/ppiankov/relcorpus/internal/model"
)

// Neo4jApplier runs generated statements against a Neo4j database
type Neo4jApplier struct {
	driver   neo4j.Driver
	database string
	logger   *logrus.Logger
}

// NewNeo4jApplier connects to the configured database and verifies it is
// reachable
func NewNeo4jApplier(cfg model.Neo4jConfig, logger *logrus.Logger) (*Neo4jApplier, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("neo4j URI is required")
	}

	driver, err := neo4j.NewDriver(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(); err != nil {
		_ = driver.Close()
		return nil, fmt.Errorf("connect to neo4j at %s: %w", cfg.URI, err)
	}

	return &Neo4jApplier{driver: driver, database: cfg.Database, logger: logger}, nil
}

// Apply runs every statement in one write transaction; any failure rolls
// back all of them. It returns the number of nodes and relationships created.
func (a *Neo4jApplier) Apply(ctx context.Context, queries []string) (nodes, relationships int, err error) {
	session := a.driver.NewSession(neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: a.database,
	})
	defer func() { _ = session.Close() }()

	_, err = session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		nodes, relationships = 0, 0
		for i, q := range queries {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			result, err := tx.Run(q, nil)
			if err != nil {
				return nil, fmt.Errorf("statement %d: %w", i+1, err)
			}
			summary, err := result.Consume()
			if err != nil {
				return nil, fmt.Errorf("statement %d: %w", i+1, err)
			}
			counters := summary.Counters()
			nodes += counters.NodesCreated()
			relationships += counters.RelationshipsCreated()
			a.logger.WithField("statement", i+1).Debug(q)
		}
		return nil, nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("apply cypher: %w", err)
	}

	a.logger.WithFields(logrus.Fields{
		"statements":    len(queries),
		"nodes":         nodes,
		"relationships": relationships,
	}).Info("applied cypher")
	return nodes, relationships, nil
}

// Close releases the driver
func (a *Neo4jApplier) Close() error {
	return a.driver.Close()
}
