// Package render draws a view.State into a full terminal frame.
//
// Rendering is a pure function of the state and the terminal size: the
// same inputs always give the same frame, and every reachable state,
// including empty panes and zero-sized terminals, produces a frame of
// exactly the requested height whose lines never exceed the requested
// width.
package render
