// Package observability exposes Prometheus metrics for the policytree engine.
//
// Metrics plugs into the engine through domain.Hooks:
//
//	reg := prometheus.NewRegistry()
//	m := observability.NewMetrics(reg)
//	eng := policytree.New(policytree.WithHooks(m.Hooks()))
package observability
