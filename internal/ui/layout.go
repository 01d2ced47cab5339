package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100
)

// Fixed chrome around the table.
const (
	headerLines = 2 // status bar + command bar
	footerLines = 1 // pagination
)

// Overlay limits.
const (
	// LogTailLines is the number of log lines loaded into the activity overlay.
	LogTailLines = 400

	// MaxToasts is the number of notifications shown at once.
	MaxToasts = 4

	// ToastWidth is the maximum width of a notification.
	ToastWidth = 56
)

// Timing constants.
const (
	// DefaultToastDuration is how long a notification stays up.
	DefaultToastDuration = 2 * time.Second
)
