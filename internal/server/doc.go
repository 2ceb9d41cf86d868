// Package server provides the operational HTTP surface of the agent
// process: Prometheus metrics on /metrics plus /healthz and /readyz probes,
// served on a dedicated port away from any user-facing traffic.
package server
