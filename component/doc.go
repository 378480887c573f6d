// Package component defines the lifecycle interface for the infrastructure
// that owns registry handles (database pools, cache clients) and an ordered
// registry that starts them in registration order and stops them in reverse.
package component
