// Package bucket is the shared-bucket schema: the struct types crossing the
// wire, their encode/decode functions in both physical layouts, and the
// service definitions (operation enums, receivers, senders) built on them.
//
// The package is purely declarative about the schema: field sets and wire
// positions are fixed here and nowhere else. New optional fields may be
// appended; required fields must never be removed or renumbered, or older
// decoders break.
//
// JSON tags exist for the key-value store payloads only — the RPC wire
// format is the codec package's binary encoding, never JSON.
package bucket

// Customer is a registered customer record. ID is nil until the record has
// been persisted; it is assigned once at creation and never reassigned.
type Customer struct {
	ID        *string `json:"id,omitempty"`
	FirstName string  `json:"firstName"`
	LastName  *string `json:"lastName,omitempty"`
	Email     string  `json:"email"`
	Address   *string `json:"address,omitempty"`
	City      *string `json:"city,omitempty"`
	Telephone *string `json:"telephone,omitempty"`
}

// CustomerGroup is a named collection of customer ids. Name doubles as the
// storage key, so names are unique across the store. Customers holds member
// ids in insertion order, no duplicates; nil means no member list yet.
type CustomerGroup struct {
	Name      string   `json:"name"`
	Customers []string `json:"customers,omitempty"`
}

// CreateCustomerReply reports the id assigned to a new customer.
// On failure Success is false and ID is empty.
type CreateCustomerReply struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
}

// FindCustomerReply carries the customer found for an id, or nil when the
// id is unknown (or the backing store failed — callers cannot tell apart).
type FindCustomerReply struct {
	Customer *Customer `json:"customer,omitempty"`
}

type CreateCustomerGroupReply struct {
	Success bool `json:"success"`
}

// AddCustomerRequest names the group and the customer id to add to it.
type AddCustomerRequest struct {
	Customer string `json:"customer"`
	Group    string `json:"group"`
}

type AddCustomerReply struct {
	Success bool `json:"success"`
}

// ListCustomersReply is the resolved member list of a group.
type ListCustomersReply []Customer

type HealthzRequest struct{}

type HealthzReply struct {
	Success bool `json:"success"`
}
