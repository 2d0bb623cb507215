// Package installer is the OriginPHP plugin installer activated inside the
// host package manager. It claims packages of type "originphp-plugin",
// resolves their name and install path, and keeps the plugin registry in step
// with the host's file transfers: registry updates run only after the host
// reports the transfer as complete.
package installer
