// Package server renders page descriptions to HTML over HTTP.
//
// Every request gets a fresh dom.Document and jml.Engine driven by a
// manual clock, so requests never share trees or timers. A page is loaded
// from a page.Store, applied with Engine.Apply, settled for the reveal
// delay and serialized with the render package.
//
// # Response Contract
//
//   - 404 when the store has no page under the name
//   - 500 when loading fails or construction panics; the cause is logged
//     and never sent to the client
//   - 200 with the serialized document otherwise
//
// # Routes
//
//	GET /metrics          Prometheus metrics (when enabled)
//	GET /static/*         files from Config.StaticDir (when set)
//	GET /_jml/reload      Config.Reload (dev mode websocket)
//	GET /*                pages; "/" serves "index"
//
// # Basic Usage
//
//	store, err := page.NewDiskStore("pages")
//	if err != nil {
//	    return err
//	}
//	srv := server.New(&server.Config{Store: store})
//	return srv.ListenAndServe(ctx)
package server
