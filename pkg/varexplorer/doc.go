// Package varexplorer produces read-only snapshots of kernel namespace
// variables for the sidecar's variable explorer panel. Snapshots are
// recomputed on demand; per-variable introspection failures are reported in
// that variable's error field and never abort a batch.
package varexplorer
