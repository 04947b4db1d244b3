// Package vector provides the immutable 2D vector used throughout gravsim.
//
// Every operation on [Vector2D] returns a new value and never mutates its
// operands, so vectors can be copied into snapshots freely.
//
// [LinesIntersecting] is the segment intersection routine used by the
// renderer to clip geometry against the viewport. Its boundary behaviour is
// deterministic for a given set of inputs.
package vector
