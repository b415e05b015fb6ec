/*
Package sidecomm synchronizes interactive "form cell" widgets and variable
explorer data between a notebook kernel process and an external sidecar UI
over a bidirectional messaging channel ("comm").

A form cell mirrors one UI control. Its value lives in three places that
sidecomm keeps consistent: the in-memory cell, a kernel namespace variable
named "<model_variable_name>_value", and the sidecar's rendering, updated
through fire-and-forget update_form_cell messages.

# Architecture

The core is hexagonal. Package formcell owns the typed cell model (variant
registry, parsing, deep-merge updates); package bridge owns the sync loop;
package ports declares the collaborator interfaces (Comm, Namespace) with
implementations under pkg/adapters (in-memory, Redis, HTTP/SSE, WebSocket).
The Kernel type in this package wires a default assembly together.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/sidecomm"
	)

	func main() {
		ctx := context.Background()
		kernel := sidecomm.New()

		// Parse an inbound sidecar payload into a live, bound cell.
		cell, err := kernel.Parse(ctx, map[string]any{
			"input_type":          "dropdown",
			"model_variable_name": "city",
			"value":               "Lisbon",
			"settings": map[string]any{
				"options": []any{"Lisbon", "Porto"},
			},
		})
		if err != nil {
			log.Fatal(err)
		}

		// Local assignments flow to the namespace and to the sidecar.
		if err := cell.SetValue(ctx, "Porto"); err != nil {
			log.Fatal(err)
		}

		value, _ := kernel.Namespace().Get(ctx, "city_value")
		fmt.Println(value) // Porto
	}
*/
package sidecomm
