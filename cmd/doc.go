// Package cmd implements the meetsched command line interface: the
// long-running 'run' daemon, the one-shot 'once' cycle, the 'auth'
// authorization flow, and the 'activity' log viewer.
package cmd
