// Package ui provides the Bubble Tea dashboard for reviewing applications.
//
// # Architecture Overview
//
// Model owns all UI state and runs on Bubble Tea's single update loop.
// Network work (loading, status changes, exports) runs as tea.Cmd functions
// that call review.Service and report back with messages. The model reads
// the shared state.Store through snapshots and derives the visible page with
// table.Derive on every change.
//
// # Package Structure
//
//   - app.go: Model, Options, Update/View and Run
//   - commands.go: messages and the commands that talk to the service
//   - input_handlers.go: key routing for the table, search box and overlays
//   - header.go, table.go, view.go: status bar, table box and footer
//   - toast.go: bottom-right notifications with auto-dismiss
//   - logs.go: activity overlay tailing the session log file
//   - help.go, keys.go: key bindings and the help overlay
//   - theme.go, style_helpers.go: Dark and Light palettes and lipgloss helpers
//
// # Event Flow
//
//  1. Init requests a load; startLoad claims a load generation and fetches
//  2. loadedMsg refreshes the snapshot; superseded loads are dropped
//  3. Keys mutate table.State or dispatch status commands
//  4. statusMsg and bulkMsg refresh from the store, which only holds
//     acknowledged changes, and raise a toast
//  5. Context cancellation or e/ctrl+c ends the program
//
// # Usage Example
//
//	err := ui.Run(ui.Options{
//		Context:  ctx,
//		Service:  svc,
//		Exporter: exporter,
//		Opener:   cv.NewOpener(cfg.OpenCommand),
//		LogPath:  cfg.LogPath(),
//	})
package ui
