// Package window shows point sets in an interactive raylib window.
//
// Left drag rotates the view, right drag pans and the wheel zooms. When
// picking, a left click picks the point nearest to the mouse ray and
// Backspace removes the last pick. Esc or closing the window finishes.
//
// The package needs cgo and the raylib system libraries. It is empty
// when built with the nowindow tag.
package window
