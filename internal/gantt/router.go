package gantt

import (
	"math"

	"github.com/alexanderramin/gantry/internal/domain"
)

// Arrow is a drawable dependency line between two task bars.
type Arrow struct {
	ID            string                `json:"id"`
	PredecessorID string                `json:"predecessorId"`
	SuccessorID   string                `json:"successorId"`
	Type          domain.DependencyType `json:"type"`
	StartX        float64               `json:"startX"`
	StartY        float64               `json:"startY"`
	EndX          float64               `json:"endX"`
	EndY          float64               `json:"endY"`
}

// VisibleIndex reports the row a task occupies in the rendered list.
// ok is false for tasks that are not rendered.
type VisibleIndex func(taskID string) (row int, ok bool)

// IndexOf builds a VisibleIndex from the rendered task list.
func IndexOf(visible []domain.Task) VisibleIndex {
	rows := make(map[string]int, len(visible))
	for i, t := range visible {
		if _, dup := rows[t.ID]; !dup {
			rows[t.ID] = i
		}
	}
	return func(id string) (int, bool) {
		row, ok := rows[id]
		return row, ok
	}
}

// Edge selects the side of a bar an arrow attaches to.
type Edge int

const (
	LeftEdge Edge = iota
	RightEdge
)

// X returns the x coordinate of the given edge.
func (p Position) X(e Edge) float64 {
	if e == RightEdge {
		return p.Right()
	}
	return p.Left
}

// EdgesFor returns which predecessor edge an arrow leaves from and which
// successor edge it enters. Types outside the four known ones are routed as
// finish-to-start.
func EdgesFor(t domain.DependencyType) (from, to Edge) {
	switch t {
	case domain.StartToStart:
		return LeftEdge, LeftEdge
	case domain.FinishToFinish:
		return RightEdge, RightEdge
	case domain.StartToFinish:
		return LeftEdge, RightEdge
	case domain.FinishToStart:
		return RightEdge, LeftEdge
	default:
		return RightEdge, LeftEdge
	}
}

// ArrowID is the stable key of a dependency arrow.
func ArrowID(predecessorID, successorID string, t domain.DependencyType) string {
	return predecessorID + "-" + successorID + "-" + string(t)
}

// Route computes arrows for every dependency whose endpoints are both in the
// visible list. all is the full task set used to resolve endpoints; visible
// is the filtered list that determines row positions.
func Route(all, visible []domain.Task, g Geometry) []Arrow {
	return RouteWithIndex(all, visible, IndexOf(visible), g)
}

// RouteWithIndex is Route with an explicit row lookup. Dependencies with an
// endpoint that is unknown or has no row are skipped.
func RouteWithIndex(all, visible []domain.Task, indexOf VisibleIndex, g Geometry) []Arrow {
	byID := make(map[string]*domain.Task, len(all)+len(visible))
	for i := range visible {
		byID[visible[i].ID] = &visible[i]
	}
	for i := range all {
		byID[all[i].ID] = &all[i]
	}

	arrows := []Arrow{}
	for _, t := range visible {
		for _, dep := range t.Dependencies {
			pred, okPred := byID[dep.PredecessorID]
			succ, okSucc := byID[dep.SuccessorID]
			if !okPred || !okSucc {
				continue
			}
			predRow, okPred := indexOf(pred.ID)
			succRow, okSucc := indexOf(succ.ID)
			if !okPred || !okSucc {
				continue
			}

			typ := dep.Type
			if typ == "" {
				typ = domain.FinishToStart
			}
			from, to := EdgesFor(typ)
			arrows = append(arrows, Arrow{
				ID:            ArrowID(pred.ID, succ.ID, typ),
				PredecessorID: pred.ID,
				SuccessorID:   succ.ID,
				Type:          typ,
				StartX:        g.Position(pred).X(from),
				StartY:        g.RowCenter(predRow),
				EndX:          g.Position(succ).X(to),
				EndY:          g.RowCenter(succRow),
			})
		}
	}
	return arrows
}

// Point is a pixel coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ArrowHead returns the triangle capping an arrow: the tip at the end point
// followed by the two base corners, oriented along the line. A zero-length
// arrow points right.
func ArrowHead(a Arrow, size float64) [3]Point {
	dx, dy := a.EndX-a.StartX, a.EndY-a.StartY
	length := math.Hypot(dx, dy)
	ux, uy := 1.0, 0.0
	if length > 0 {
		ux, uy = dx/length, dy/length
	}
	baseX, baseY := a.EndX-ux*size, a.EndY-uy*size
	half := size / 2
	return [3]Point{
		{X: a.EndX, Y: a.EndY},
		{X: baseX - uy*half, Y: baseY + ux*half},
		{X: baseX + uy*half, Y: baseY - ux*half},
	}
}
