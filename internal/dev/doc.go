// Package dev provides the development server and live reload.
//
// The development server consists of:
//
//   - Watcher: polls page files, stylesheets and assets for changes
//   - ReloadHub: notifies browsers of changes via WebSocket
//   - Server: the page server with the reload client injected
//
// # Usage
//
//	srv := dev.NewServer(cfg, store, dev.Options{Logger: logger})
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Changed page files are decoded before browsers reload. A page that does
// not decode is shown in an error overlay until it is fixed.
//
// # Reload Protocol
//
// The browser connects to /_jml/reload via WebSocket.
// Messages are JSON-encoded:
//
//	{"type": "reload"}                // Triggers full page reload
//	{"type": "css", "file": "..."}    // Reloads stylesheets
//	{"type": "error", "error": "..."} // Shows error overlay
//	{"type": "clear"}                 // Clears error overlay
package dev
