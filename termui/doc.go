// Package termui connects the viewer to a terminal.
//
// The primary function Loop.Run acquires the terminal, then waits for one
// event, applies it to the view state and draws one full frame, until the
// quit key is pressed or its context is canceled. The terminal is restored
// exactly once whichever way Run returns.
//
// RunTea is an alternative driver that runs the same state and renderer
// under bubbletea.
package termui
