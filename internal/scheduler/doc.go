// Package scheduler places recurring class meetings onto a weekly day × period
// grid without double-booking teachers or classes, and projects the resulting
// weekly pattern onto calendar dates.
//
// A run is single-threaded: the Engine walks a Document of RequirementLines,
// placing each line greedily (first free day, then first free period). When a
// line cannot be placed it is promoted to the front of the document, every
// resource's availability is cleared and the walk restarts, up to a fixed
// attempt ceiling. None of the types in this package are safe for concurrent
// use; callers serialize runs per timetable.
package scheduler
