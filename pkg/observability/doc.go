/*
Package observability turns parser lifecycle events into Prometheus metrics
and structured log lines.

Both are delivered as domain.LifecycleHooks and can be combined with
domain.ChainHooks before being handed to plenum.WithLifecycleHooks.
*/
package observability
