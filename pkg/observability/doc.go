/*
Package observability turns dispatch lifecycle hooks into Prometheus metrics
and structured logs.

Metrics.Hooks and LogHooks return domain.LifecycleHooks; Chain combines
several of them into one value for the dispatcher.
*/
package observability
