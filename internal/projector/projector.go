// ABOUTME: Semantic Projector maps a collection's embeddings to 2D positions
// ABOUTME: Handles 0/1/2-item layouts, malformed-vector fallback, and failure degradation
package projector

import (
	"log"
	"math"

	"github.com/tessellate-systems/lattice/internal/apperr"
	"github.com/tessellate-systems/lattice/internal/models"
)

// fallbackRadius places malformed-embedding items on a ring outside the
// main layout
const fallbackRadius = 3.0

// Item is one projection input: an entry or comment id with its embedding
type Item struct {
	ID        string
	Embedding []float64
}

// Position is a 2D layout coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Placed pairs an input id with its computed position
type Placed struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
}

// Projector computes 2D layouts from fixed-dimension embeddings. It is
// stateless; every invocation is an independent full recomputation.
type Projector struct {
	dimension int
}

// New creates a Projector expecting embeddings of the given dimension
func New(dimension int) *Projector {
	if dimension <= 0 {
		dimension = models.ExpectedDimension
	}
	return &Projector{dimension: dimension}
}

// Project assigns a position to every input item. Items with a valid
// embedding are laid out by semantic similarity; items whose embedding is
// missing, non-finite, or of the wrong length go on a fallback ring. The
// result is not deterministic across runs, but always covers every input
// id exactly once with finite coordinates.
func (p *Projector) Project(items []Item) []Placed {
	if len(items) == 0 {
		return []Placed{}
	}

	var valid []int
	var invalid []int
	for i, item := range items {
		if p.validEmbedding(item.Embedding) {
			valid = append(valid, i)
		} else {
			invalid = append(invalid, i)
		}
	}

	positions := make(map[int]Position, len(items))

	switch {
	case len(valid) == 0:
		// Nothing projectable; everything rides the fallback ring
	case len(valid) == 1:
		positions[valid[0]] = Position{X: 0, Y: 0}
	case len(valid) == 2:
		positions[valid[0]] = Position{X: -1, Y: 0}
		positions[valid[1]] = Position{X: 1, Y: 0}
	default:
		data := make([][]float64, len(valid))
		for vi, idx := range valid {
			data[vi] = items[idx].Embedding
		}
		coords, err := fitUMAP(data, layoutConfig(len(valid)))
		if err != nil {
			// Degrade to a circle so the graph stays navigable; the error
			// never reaches callers
			perr := &apperr.ProjectionError{Err: err}
			log.Printf("falling back to circle layout: %v", perr)
			return circleLayout(items)
		}
		for vi, idx := range valid {
			positions[idx] = Position{X: coords[vi][0], Y: coords[vi][1]}
		}
	}

	for ri, idx := range invalid {
		theta := 2 * math.Pi * float64(ri) / float64(len(invalid))
		positions[idx] = Position{
			X: fallbackRadius * math.Cos(theta),
			Y: fallbackRadius * math.Sin(theta),
		}
	}

	placed := make([]Placed, len(items))
	for i, item := range items {
		placed[i] = Placed{ID: item.ID, Position: positions[i]}
	}
	return placed
}

// layoutConfig scales the reduction parameters with item count. Neighbor
// count tracks ~10% of the set; min-dist and spread are tuned for a
// readable graph rather than strict neighborhood fidelity; epochs grow
// mildly with n but stay capped for latency.
func layoutConfig(n int) umapConfig {
	neighbors := n / 10
	if neighbors < 2 {
		neighbors = 2
	}
	if neighbors > 8 {
		neighbors = 8
	}
	epochs := 2 * n
	if epochs < 50 {
		epochs = 50
	}
	if epochs > 100 {
		epochs = 100
	}
	return umapConfig{
		nNeighbors:   neighbors,
		minDist:      0.3,
		spread:       2.0,
		nEpochs:      epochs,
		learningRate: 1.0,
		negativeRate: 5,
	}
}

// circleLayout places all items evenly on a unit circle
func circleLayout(items []Item) []Placed {
	placed := make([]Placed, len(items))
	for i, item := range items {
		theta := 2 * math.Pi * float64(i) / float64(len(items))
		placed[i] = Placed{
			ID:       item.ID,
			Position: Position{X: math.Cos(theta), Y: math.Sin(theta)},
		}
	}
	return placed
}

func (p *Projector) validEmbedding(v []float64) bool {
	if len(v) != p.dimension {
		return false
	}
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// FlattenEntries turns a collection view (top-level entries with nested
// comments) into the flat projection input list. Comments are projected as
// ordinary points; the renderer draws the edge back to the parent.
func FlattenEntries(entries []*models.Entry) []Item {
	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, Item{ID: e.ID, Embedding: e.Embedding})
		for _, c := range e.Comments {
			items = append(items, Item{ID: c.ID, Embedding: c.Embedding})
		}
	}
	return items
}
