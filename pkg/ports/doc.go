/*
Package ports defines the driven ports (interfaces) of the inkmap annotation engine.

These interfaces decouple the annotation session from its collaborators, allowing
the same session to persist through memory, files, Redis or a remote HTTP API, and
to take polygon input from any lasso implementation.

# Key Interfaces

  - CoordinateStore: Persists and loads the coordinate sequence of a Word.
  - DistributedLocker: Serializes access to one Word across multiple instances.
  - LassoCapture: Polygon-vertex input mode that reports edits and a cropped preview.
  - ImageSource: Asynchronously loaded reference image.
*/
package ports
