// Package server provides the admin HTTP surface: a Gin engine served over
// HTTP/1.1 and h2c, with request ID, recovery and request logging middleware.
//
// RegisterAdmin mounts:
//
//	GET /health         component health aggregate, 503 when any is unhealthy
//	GET /info           build information
//	GET /registry       every registry entry
//	GET /registry/:key  one entry by effective key, 404 when absent
//
// Entries are described by key, category and dynamic type. Instances are
// never serialized.
package server
