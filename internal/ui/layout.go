package ui

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 80

	// LayoutHelpWidth is the width of the help modal.
	LayoutHelpWidth = 44
)
