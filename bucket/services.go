package bucket

import (
	"context"
	"strings"
)

// Service names as they appear in wire method strings.
const (
	CustomersService      = "Customers"
	CustomerGroupsService = "CustomerGroups"
)

// Customers is the customer-registration service.
// Both the receiving implementation (customers package) and the sending
// stub (CustomersSender) satisfy it, so a caller cannot tell whether the
// service is local or remote.
type Customers interface {
	CreateCustomer(ctx context.Context, arg *Customer) (*CreateCustomerReply, error)
	FindCustomer(ctx context.Context, id string) (*FindCustomerReply, error)
	Healthz(ctx context.Context, arg *HealthzRequest) (*HealthzReply, error)
}

// CustomerGroups is the group-membership service.
type CustomerGroups interface {
	CreateCustomerGroup(ctx context.Context, arg *CustomerGroup) (*CreateCustomerGroupReply, error)
	AddCustomer(ctx context.Context, arg *AddCustomerRequest) (*AddCustomerReply, error)
	ListCustomers(ctx context.Context, group string) (ListCustomersReply, error)
}

// CustomersOp enumerates the Customers operations. The wire method string
// is a serialization detail of this tag: Method renders it, and
// ParseCustomersOp recovers it, so dispatch switches stay exhaustive over
// a closed set instead of matching strings ad hoc.
type CustomersOp uint8

const (
	OpCreateCustomer CustomersOp = iota
	OpFindCustomer
	OpHealthz
)

func (op CustomersOp) Method() string {
	switch op {
	case OpCreateCustomer:
		return CustomersService + ".CreateCustomer"
	case OpFindCustomer:
		return CustomersService + ".FindCustomer"
	case OpHealthz:
		return CustomersService + ".Healthz"
	}
	return CustomersService + ".<invalid>"
}

// ParseCustomersOp maps a wire method to its operation tag. The service
// prefix is optional so receivers accept both "CreateCustomer" and
// "Customers.CreateCustomer".
func ParseCustomersOp(method string) (CustomersOp, bool) {
	switch bareMethod(method, CustomersService) {
	case "CreateCustomer":
		return OpCreateCustomer, true
	case "FindCustomer":
		return OpFindCustomer, true
	case "Healthz":
		return OpHealthz, true
	}
	return 0, false
}

// CustomerGroupsOp enumerates the CustomerGroups operations.
type CustomerGroupsOp uint8

const (
	OpCreateCustomerGroup CustomerGroupsOp = iota
	OpAddCustomer
	OpListCustomers
)

func (op CustomerGroupsOp) Method() string {
	switch op {
	case OpCreateCustomerGroup:
		return CustomerGroupsService + ".CreateCustomerGroup"
	case OpAddCustomer:
		return CustomerGroupsService + ".AddCustomer"
	case OpListCustomers:
		return CustomerGroupsService + ".ListCustomers"
	}
	return CustomerGroupsService + ".<invalid>"
}

func ParseCustomerGroupsOp(method string) (CustomerGroupsOp, bool) {
	switch bareMethod(method, CustomerGroupsService) {
	case "CreateCustomerGroup":
		return OpCreateCustomerGroup, true
	case "AddCustomer":
		return OpAddCustomer, true
	case "ListCustomers":
		return OpListCustomers, true
	}
	return 0, false
}

// bareMethod strips a matching "<Service>." prefix. A prefix naming a
// different service never matches any operation.
func bareMethod(method, service string) string {
	if prefix, op, ok := strings.Cut(method, "."); ok {
		if prefix != service {
			return ""
		}
		return op
	}
	return method
}
