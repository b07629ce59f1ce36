// Package browser holds the show list state: the dashboard page loaded at
// startup and the debounced search that replaces it while a query is set.
//
// The Model is a Bubble Tea sub-model. Every transition returns a new Model
// and, where I/O is needed, a tea.Cmd whose message must be fed back through
// Update. Superseded debounce timers and searches are cancelled through their
// contexts and fenced with sequence numbers, so a late completion can never
// overwrite newer state.
package browser
