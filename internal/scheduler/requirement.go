package scheduler

// Slot is a (day, period) cell of the grid.
type Slot struct {
	Day    int
	Period int
}

// RequirementLine is one class's recurring need: Frequency occurrences of
// Length consecutive periods, with every resource in Resources free.
type RequirementLine struct {
	ClassID   string
	Resources []ResourceID
	Frequency int
	Length    int

	// Preference marks preferred cells with CellFree.
	Preference Matrix
	// Working is scratch space rebuilt before each occurrence is placed.
	Working Matrix

	Assigned []Slot
}

// addResource appends id unless it is already required.
func (l *RequirementLine) addResource(id ResourceID) {
	for _, existing := range l.Resources {
		if existing == id {
			return
		}
	}
	l.Resources = append(l.Resources, id)
}

// ResetAssignments drops every slot placed so far.
func (l *RequirementLine) ResetAssignments() {
	l.Assigned = nil
}

// Document is the ordered sequence of requirement lines for one run.
type Document struct {
	lines []*RequirementLine
}

// NewDocument wraps lines in their given order.
func NewDocument(lines ...*RequirementLine) *Document {
	d := &Document{lines: make([]*RequirementLine, 0, len(lines))}
	d.lines = append(d.lines, lines...)
	return d
}

// Append adds a line at the end of the document.
func (d *Document) Append(line *RequirementLine) {
	d.lines = append(d.lines, line)
}

// Len returns the number of lines.
func (d *Document) Len() int { return len(d.lines) }

// At returns the line at position i.
func (d *Document) At(i int) *RequirementLine { return d.lines[i] }

// Lines returns the lines in document order. The slice must not be modified.
func (d *Document) Lines() []*RequirementLine { return d.lines }

// PromoteToFront moves the line at position i to the front, keeping the
// relative order of the others.
func (d *Document) PromoteToFront(i int) {
	if i <= 0 || i >= len(d.lines) {
		return
	}
	line := d.lines[i]
	copy(d.lines[1:i+1], d.lines[:i])
	d.lines[0] = line
}
