package scheduler

import (
	"fmt"
	"sort"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// ResourceKind discriminates the id spaces that share the resource pool.
type ResourceKind uint8

const (
	ResourceTeacher ResourceKind = iota + 1
	ResourceClass
)

func (k ResourceKind) String() string {
	switch k {
	case ResourceTeacher:
		return "teacher"
	case ResourceClass:
		return "class"
	default:
		return "unknown"
	}
}

// ResourceID identifies a schedulable resource. Teacher and class ids live in
// separate namespaces, so a teacher and a class may share the same raw id.
type ResourceID struct {
	Kind ResourceKind
	ID   string
}

// TeacherResource identifies a teacher.
func TeacherResource(id string) ResourceID { return ResourceID{Kind: ResourceTeacher, ID: id} }

// ClassResource identifies a class acting as its own resource, which keeps a
// class's occurrences from overlapping each other.
func ClassResource(id string) ResourceID { return ResourceID{Kind: ResourceClass, ID: id} }

func (r ResourceID) String() string { return fmt.Sprintf("%s:%s", r.Kind, r.ID) }

// Entity is a resource with its own availability grid.
type Entity struct {
	ID           ResourceID
	DisplayName  string
	Availability Matrix
}

// IsFree reports whether the entity is free at (day, period).
func (e *Entity) IsFree(day, period int) bool {
	return e.Availability.Get(day, period) == CellFree
}

// Occupy marks length consecutive periods starting at (day, period) busy.
func (e *Entity) Occupy(day, period, length int) {
	for k := 0; k < length; k++ {
		e.Availability.Set(day, period+k, CellBusy)
	}
}

// Pool holds every resource for one scheduling run.
type Pool struct {
	entities map[ResourceID]*Entity
}

// NewPool creates a fresh pool with one entity per teacher and one per class,
// each with an empty grid-sized availability matrix.
func NewPool(teachers []models.Teacher, classes []models.Class, grid Grid) *Pool {
	p := &Pool{entities: make(map[ResourceID]*Entity, len(teachers)+len(classes))}
	for _, t := range teachers {
		p.Add(&Entity{
			ID:           TeacherResource(t.ID),
			DisplayName:  t.FullName,
			Availability: NewMatrix(grid.NumDays(), grid.NumPeriods()),
		})
	}
	for _, c := range classes {
		p.Add(&Entity{
			ID:           ClassResource(c.ID),
			DisplayName:  c.DisplayName(),
			Availability: NewMatrix(grid.NumDays(), grid.NumPeriods()),
		})
	}
	return p
}

// Add registers an entity, replacing any entity with the same id.
func (p *Pool) Add(e *Entity) {
	if p.entities == nil {
		p.entities = make(map[ResourceID]*Entity)
	}
	p.entities[e.ID] = e
}

// Get resolves an entity by id.
func (p *Pool) Get(id ResourceID) (*Entity, bool) {
	if p == nil {
		return nil, false
	}
	e, ok := p.entities[id]
	return e, ok
}

// Len returns the number of registered entities.
func (p *Pool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.entities)
}

// IDs returns every registered id ordered by kind then raw id.
func (p *Pool) IDs() []ResourceID {
	if p == nil {
		return nil
	}
	ids := make([]ResourceID, 0, len(p.entities))
	for id := range p.entities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].Kind != ids[j].Kind {
			return ids[i].Kind < ids[j].Kind
		}
		return ids[i].ID < ids[j].ID
	})
	return ids
}

// Reset gives every entity a brand-new empty availability matrix.
func (p *Pool) Reset(rows, cols int) {
	if p == nil {
		return
	}
	for _, e := range p.entities {
		e.Availability = NewMatrix(rows, cols)
	}
}
