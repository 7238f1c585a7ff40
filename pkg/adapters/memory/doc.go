// Package memory provides in-process implementations of the ports, used by
// tests, the demo CLI and single-instance deployments.
package memory
