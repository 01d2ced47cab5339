// Package app is docket's composition root.
//
// Run loads configuration, opens the session log, builds the data source
// (the HTTP API client or the in-process mock), the CV session store and the
// review service, then hands everything to the UI and blocks until it exits.
//
//	Run()
//	  ├─> config.Load()          .env, TOML file, environment, flags
//	  ├─> config.SetupLogger()   slog text handler on the session log
//	  ├─> newService()           source + cv.Store + state.Store
//	  ├─> prefs.Load()           theme and page size
//	  └─> ui.Run()               Bubble Tea program (blocks)
//
// Configuration and logger errors are fatal and returned. Load and update
// failures after startup are shown in the UI and logged, never returned.
// The CV session directory is removed when Run returns.
package app
