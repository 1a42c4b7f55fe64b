package domain

// Graph node kinds used by the archive browser layout.
const (
	GraphNodeRoot     = "root"
	GraphNodeCategory = "category"
	GraphNodeEntity   = "entity"
	GraphNodeCenter   = "center"
	GraphNodeDocument = "doc"
)

// Graph layout modes.
const (
	GraphModeOverview = "overview"
	GraphModeFocus    = "focus"
)

// GraphNode is a positioned node on the fixed 800x600 canvas.
type GraphNode struct {
	ID    string  `json:"id"`
	Kind  string  `json:"kind"`
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// GraphLink connects two nodes by id.
type GraphLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is a fully derived projection: recomputed from the approved document
// set on every request, never maintained incrementally.
type Graph struct {
	Mode  string      `json:"mode"`
	Nodes []GraphNode `json:"nodes"`
	Links []GraphLink `json:"links"`
}

// EntityDirectory lists distinct entity names per type across the approved
// set, in first-seen (arrival) order.
type EntityDirectory map[EntityType][]string
