/*
Package domain contains the core domain models for the inkmap annotation engine.

It defines the values that flow between the canvas controller, the history manager
and the persistence bridge. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Point: A pixel coordinate relative to the canvas origin.
  - Stroke: One committed freehand path with its color and width. Never edited in place.
  - Action: A reversible {PreviousState, NewState} snapshot pair over the stroke store.
  - Coordinates: The flat [[x, y], ...] sequence persisted for a Word.
  - Mode / DrawState / Tool: The explicit finite states of an annotation session.
*/
package domain
