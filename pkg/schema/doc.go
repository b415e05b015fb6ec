// Package schema defines the typed settings schemas for form cell variants.
//
// Each recognized input type owns a closed Schema mapping setting keys to
// value validators. Partial settings are always acceptable; keys outside the
// schema are rejected so a variant's shape stays fixed for its lifetime.
package schema
