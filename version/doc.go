// Package version reports build information for the containerd binary.
//
// Version, commit and build time are set with -ldflags; anything left unset
// is read from the VCS stamp the Go toolchain embeds.
package version
