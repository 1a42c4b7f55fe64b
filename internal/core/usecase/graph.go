package usecase

import (
	"math"

	"github.com/unirecords/archive-console/internal/core/domain"
)

// Fixed layout canvas shared with the browser client.
const (
	graphWidth  = 800.0
	graphHeight = 600.0

	overviewCategoryRadius = 150.0
	overviewEntityRadius   = 100.0
	focusRadius            = 200.0

	// At most this many entity names per type bucket in overview mode,
	// first-seen across the approved set.
	overviewEntitiesPerType = 3
)

// LayoutGraph is a pure function of (approved document set, selection).
//
// With no selection it produces the overview: a root node fanned out to the
// five entity-type categories on one ring, each fanned out to up to three
// entity names on a second ring. With a selected entity name it produces the
// focus star: the name at center, one satellite per approved document that
// mentions it.
func LayoutGraph(docs []domain.Document, selectedEntity string) domain.Graph {
	if selectedEntity != "" {
		return layoutFocus(docs, selectedEntity)
	}
	return layoutOverview(docs)
}

func layoutOverview(docs []domain.Document) domain.Graph {
	centerX, centerY := graphWidth/2, graphHeight/2
	directory := buildEntityDirectory(docs)
	types := domain.EntityTypes()

	graph := domain.Graph{Mode: domain.GraphModeOverview}
	graph.Nodes = append(graph.Nodes, domain.GraphNode{
		ID: "ROOT", Kind: domain.GraphNodeRoot, Label: "全宗档案", X: centerX, Y: centerY,
	})

	for i, t := range types {
		angle := float64(i) / float64(len(types)) * 2 * math.Pi
		catX := centerX + overviewCategoryRadius*math.Cos(angle)
		catY := centerY + overviewCategoryRadius*math.Sin(angle)
		graph.Nodes = append(graph.Nodes, domain.GraphNode{
			ID: string(t), Kind: domain.GraphNodeCategory, Label: string(t), X: catX, Y: catY,
		})
		graph.Links = append(graph.Links, domain.GraphLink{Source: "ROOT", Target: string(t)})

		names := directory[t]
		if len(names) > overviewEntitiesPerType {
			names = names[:overviewEntitiesPerType]
		}
		for j, name := range names {
			spread := angle + (float64(j)-1)*0.5
			graph.Nodes = append(graph.Nodes, domain.GraphNode{
				ID:    name,
				Kind:  domain.GraphNodeEntity,
				Label: name,
				X:     catX + overviewEntityRadius*math.Cos(spread),
				Y:     catY + overviewEntityRadius*math.Sin(spread),
			})
			graph.Links = append(graph.Links, domain.GraphLink{Source: string(t), Target: name})
		}
	}
	return graph
}

func layoutFocus(docs []domain.Document, selectedEntity string) domain.Graph {
	centerX, centerY := graphWidth/2, graphHeight/2

	related := make([]domain.Document, 0)
	for _, doc := range docs {
		if hasEntityNamed(doc, selectedEntity) {
			related = append(related, doc)
		}
	}

	graph := domain.Graph{Mode: domain.GraphModeFocus}
	graph.Nodes = append(graph.Nodes, domain.GraphNode{
		ID: selectedEntity, Kind: domain.GraphNodeCenter, Label: selectedEntity, X: centerX, Y: centerY,
	})
	for idx, doc := range related {
		angle := float64(idx) / float64(len(related)) * 2 * math.Pi
		graph.Nodes = append(graph.Nodes, domain.GraphNode{
			ID:    doc.ID,
			Kind:  domain.GraphNodeDocument,
			Label: doc.FileName,
			X:     centerX + focusRadius*math.Cos(angle),
			Y:     centerY + focusRadius*math.Sin(angle),
		})
		graph.Links = append(graph.Links, domain.GraphLink{Source: selectedEntity, Target: doc.ID})
	}
	return graph
}
