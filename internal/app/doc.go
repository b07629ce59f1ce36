// Package app is telly's composition root.
//
// Bootstrap turns Options into an Env: it loads config.Config, applies
// command line Overrides, builds the zap logger and the tvmaze.Client. Run
// hands that Env to the Bubble Tea UI together with the saved preferences;
// the report functions (PrintList, PrintSearch, PrintShow) reuse it for the
// non-interactive subcommands.
//
//	cmd/telly ──► app.Bootstrap ──► config.Load
//	                    │            logging.New
//	                    │            tvmaze.NewClient
//	                    ├──► app.Run ──► ui.Run (browser + detail)
//	                    └──► app.Print* ──► plain text on stdout
package app
