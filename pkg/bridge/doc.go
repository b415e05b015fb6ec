// Package bridge keeps form cells and the sidecar UI in sync over a comm
// channel: local mutations go out as update_form_cell messages, first
// renders go out as display_form_cell messages, and inbound messages are
// routed to the owning cell by identity.
package bridge
