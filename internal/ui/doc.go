// Package ui is telly's terminal interface, built on Bubble Tea.
//
// # Structure
//
// Model is the root tea.Model. It owns two state machines and routes
// messages to them:
//
//   - browser.Model: dashboard page and debounced search
//   - detail.Model: the show opened from the list
//
// Command results that neither key handling nor window sizing consumes are
// handed to both machines; each ignores messages it does not own.
//
// # Views
//
//   - List: a search line over genre sections. Genres are ordered by name
//     and shows within a genre by rating. A show with several genres
//     appears in each of them.
//   - Detail: metadata and the summary rendered as Markdown through glamour,
//     inside a scrollable viewport.
//
// # Keys
//
//	/        focus search (enter searches now, esc clears)
//	j/k      move or scroll
//	g/G      top/bottom
//	enter    open details
//	esc      clear search / back to list
//	r        reload the dashboard or the open show
//	T        cycle theme (saved to prefs)
//	?        help
//	q        quit
//
// # Files
//
//   - app.go: Model, key routing, Run
//   - list.go: genre sections and titled boxes
//   - detail.go: detail viewport and Markdown rendering
//   - header.go: status and command bars
//   - theme.go: palettes and lipgloss styles
package ui
