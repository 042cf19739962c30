package curve

import (
	"fmt"
	"slices"
	"sync"

	"github.com/Faultbox/pathcarve/pkg/math"
)

// EditKind is the kind of knot edit.
type EditKind uint8

// Edit kinds.
const (
	EditAdd EditKind = iota
	EditInsert
	EditMove
	EditDelete
)

// String returns the edit kind name.
func (k EditKind) String() string {
	switch k {
	case EditAdd:
		return "add"
	case EditInsert:
		return "insert"
	case EditMove:
		return "move"
	case EditDelete:
		return "delete"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// Edit is an intent to change a control point list.
// Index is ignored for EditAdd. For EditInsert the new point goes after Index.
type Edit struct {
	Kind     EditKind
	Index    int
	Position math.Vec3
}

// Change is the full result of planning an edit. Points is the new list;
// Inserted and Moved index into it, Removed indexes into the old list.
type Change struct {
	Points   []math.Vec3
	Inserted []int
	Moved    []int
	Removed  []int
}

// Plan computes the effect of e on points without modifying them.
func Plan(c CurveType, points []math.Vec3, e Edit) (Change, error) {
	n := len(points)
	if c == Bezier && n > 0 && (n-1)%3 != 0 {
		return Change{}, fmt.Errorf("%w: bezier list of %d points", ErrKnotCount, n)
	}
	if e.Kind != EditAdd && (e.Index < 0 || e.Index >= n) {
		if e.Kind == EditInsert && n == 0 {
			e.Kind = EditAdd
		} else {
			return Change{}, fmt.Errorf("%w: %s at %d (have %d)", ErrIndexRange, e.Kind, e.Index, n)
		}
	}

	switch c {
	case Bezier:
		return planBezier(points, e)
	case CatmullRom:
		return planCatmullRom(points, e)
	default:
		return Change{}, fmt.Errorf("%w: %d", ErrUnknownType, uint8(c))
	}
}

func planBezier(points []math.Vec3, e Edit) (Change, error) {
	n := len(points)
	switch e.Kind {
	case EditAdd:
		if n == 0 {
			return Change{Points: []math.Vec3{e.Position}, Inserted: []int{0}}, nil
		}
		last := points[n-1]
		d := e.Position.Sub(last).Scale(handleFraction)
		out := append(slices.Clone(points), last.Add(d), e.Position.Sub(d), e.Position)
		return Change{Points: out, Inserted: []int{n, n + 1, n + 2}}, nil

	case EditInsert:
		a := e.Index - e.Index%3
		if a+3 >= n {
			return planBezier(points, Edit{Kind: EditAdd, Position: e.Position})
		}
		prev, next := points[a], points[a+3]
		group := []math.Vec3{
			e.Position.Sub(e.Position.Sub(prev).Scale(handleFraction)),
			e.Position,
			e.Position.Add(next.Sub(e.Position).Scale(handleFraction)),
		}
		out := slices.Insert(slices.Clone(points), a+2, group...)
		return Change{Points: out, Inserted: []int{a + 2, a + 3, a + 4}}, nil

	case EditMove:
		out := slices.Clone(points)
		moved := []int{e.Index}
		if e.Index%3 == 0 {
			// Anchor: carry both handles along to keep the local shape
			delta := e.Position.Sub(points[e.Index])
			for _, h := range []int{e.Index - 1, e.Index + 1} {
				if h >= 0 && h < n {
					out[h] = out[h].Add(delta)
					moved = append(moved, h)
				}
			}
		}
		out[e.Index] = e.Position
		slices.Sort(moved)
		return Change{Points: out, Moved: moved}, nil

	case EditDelete:
		// Handles belong to the nearest anchor
		a := ((e.Index + 1) / 3) * 3
		var lo int
		switch {
		case n == 1:
			return Change{Points: nil, Removed: []int{0}}, nil
		case a == 0:
			lo = 0
		case a == n-1:
			lo = n - 3
		default:
			lo = a - 1
		}
		out := slices.Delete(slices.Clone(points), lo, lo+3)
		return Change{Points: out, Removed: []int{lo, lo + 1, lo + 2}}, nil
	}
	return Change{}, fmt.Errorf("unsupported edit %s", e.Kind)
}

func planCatmullRom(points []math.Vec3, e Edit) (Change, error) {
	n := len(points)
	switch e.Kind {
	case EditAdd:
		out := append(slices.Clone(points), e.Position)
		return Change{Points: out, Inserted: []int{n}}, nil
	case EditInsert:
		out := slices.Insert(slices.Clone(points), e.Index+1, e.Position)
		return Change{Points: out, Inserted: []int{e.Index + 1}}, nil
	case EditMove:
		out := slices.Clone(points)
		out[e.Index] = e.Position
		return Change{Points: out, Moved: []int{e.Index}}, nil
	case EditDelete:
		out := slices.Delete(slices.Clone(points), e.Index, e.Index+1)
		return Change{Points: out, Removed: []int{e.Index}}, nil
	}
	return Change{}, fmt.Errorf("unsupported edit %s", e.Kind)
}

// Store is an ordered, mutable knot list shared between an editor and the
// synthesis driver. Edits are planned on a snapshot and swapped in whole.
//
// Thread safety: Store is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	path     Path
	revision uint64
}

// NewStore creates a store holding a copy of p.
func NewStore(p Path) *Store {
	return &Store{path: p.Clone()}
}

// Apply plans and commits an edit. The store is unchanged on error.
func (s *Store) Apply(e Edit) (Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	change, err := Plan(s.path.Type, s.path.Points, e)
	if err != nil {
		return Change{}, err
	}
	s.path.Points = change.Points
	s.revision++
	return change, nil
}

// SetType switches the active curve type, converting the knots.
func (s *Store) SetType(c CurveType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path.Type == c {
		return
	}
	s.path = Convert(s.path, c)
	s.revision++
}

// Snapshot returns a copy of the current path and its revision.
func (s *Store) Snapshot() (Path, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path.Clone(), s.revision
}

// Revision returns a counter that increases on every committed change.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}
