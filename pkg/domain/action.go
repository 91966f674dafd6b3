package domain

// Action is a reversible snapshot pair over the stroke store and the unit of undo/redo.
type Action struct {
	PreviousState []Stroke `json:"previous_state"`
	NewState      []Stroke `json:"new_state"`
}
