// Package cli defines the Cobra command tree for origin-plugins. The commands
// drive the host install flow for local package directories: each one loads
// the project settings, activates the plugin installer on a host manager and
// delegates to it. Output formatting lives here; business logic does not.
package cli
