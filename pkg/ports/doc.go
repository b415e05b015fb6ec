// Package ports declares the collaborator interfaces the core depends on:
// the comm channel reaching the sidecar UI and the kernel namespace holding
// user variables. Concrete implementations live under pkg/adapters.
package ports
