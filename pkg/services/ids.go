// Package services wires the store facade, the priority kernel, the
// calendar engine, and LLM dispatch into the owner-scoped business
// operations the API layer calls.
package services

import "github.com/google/uuid"

func newID() string {
	return uuid.NewString()
}
