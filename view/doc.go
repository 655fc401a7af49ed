// Package view holds the navigation state of the viewer: which rows each
// pane lists, where every pane's cursor and scroll are, which pane has
// focus and what the Detail pane is bound to.
//
// Nothing here touches the terminal or returns errors. Inputs that make no
// sense in the current state are ignored and out-of-range moves are
// clamped.
package view
