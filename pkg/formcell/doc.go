/*
Package formcell implements the kernel-side model of interactive form cells.

A form cell mirrors one UI control rendered by the notebook sidecar. The
package covers the full local lifecycle:

  - Registry: maps input_type tags to variant descriptors (settings schema
    plus value kind), falling back to an open "custom" variant for tags it
    does not recognize.
  - Parse: converts an untyped inbound payload into a typed *Cell, coercing
    the value and validating settings against the variant schema.
  - Cell: the stateful entity. It owns the value, keeps the bound namespace
    variable ("<model_variable_name>_value") in sync, and notifies
    subscribers of every observable mutation.
  - Update: applies partial patches with deep-merged settings, so keys not
    mentioned in a patch survive.

Cells assume the host kernel delivers messages sequentially (one writer at
a time), so Cell itself carries no locking.
*/
package formcell
