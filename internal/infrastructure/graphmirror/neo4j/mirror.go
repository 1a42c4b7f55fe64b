package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/unirecords/archive-console/internal/core/domain"
)

// Mirror pushes approved documents and their extracted entities into Neo4j
// so the archive graph can be explored with native graph tooling. Mirroring
// is best effort: callers log and continue on failure.
type Mirror struct {
	driver neo4j.DriverWithContext
}

func New(ctx context.Context, uri, username, password string) (*Mirror, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verify neo4j connectivity: %w", err)
	}
	return &Mirror{driver: driver}, nil
}

func (m *Mirror) MirrorApproved(ctx context.Context, doc *domain.Document) error {
	if doc == nil || doc.Metadata == nil {
		return fmt.Errorf("mirror approved: document metadata missing")
	}

	session := m.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, `
			MERGE (d:Document {id: $id})
			SET d.title = $title,
			    d.category = $category,
			    d.date = $date,
			    d.department = $department,
			    d.securityLevel = $securityLevel,
			    d.filename = $filename`,
			map[string]any{
				"id":            doc.ID,
				"title":         doc.Metadata.Title,
				"category":      string(doc.Metadata.Category),
				"date":          doc.Metadata.Date,
				"department":    doc.Metadata.Department,
				"securityLevel": string(doc.Metadata.SecurityLevel),
				"filename":      doc.FileName,
			})
		if err != nil {
			return nil, err
		}

		for _, entity := range doc.Entities {
			_, err := tx.Run(ctx, `
				MERGE (e:Entity {name: $name, type: $type})
				WITH e
				MATCH (d:Document {id: $docID})
				MERGE (d)-[r:MENTIONS]->(e)
				SET r.context = $context,
				    r.confidence = $confidence`,
				map[string]any{
					"name":       entity.Name,
					"type":       string(entity.Type),
					"docID":      doc.ID,
					"context":    entity.Context,
					"confidence": entity.Confidence,
				})
			if err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("mirror document %s: %w", doc.ID, err)
	}
	return nil
}

func (m *Mirror) Close(ctx context.Context) error {
	return m.driver.Close(ctx)
}
