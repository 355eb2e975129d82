// Package cli defines the Cobra command tree for the hyperapp-create CLI.
// The root command scaffolds a project; the remaining files each register
// one helper command (version, config, cache). Commands resolve settings
// through internal/config and delegate the work to internal packages.
package cli
