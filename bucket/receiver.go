package bucket

import (
	"context"

	"sharedbucket/codec"
	"sharedbucket/dispatch"
	"sharedbucket/message"
)

// CustomersReceiver routes incoming Customers messages to a typed
// implementation. It is side-effect-free itself: decode, invoke, encode.
type CustomersReceiver struct {
	impl Customers
}

func NewCustomersReceiver(impl Customers) *CustomersReceiver {
	return &CustomersReceiver{impl: impl}
}

func (r *CustomersReceiver) ServiceName() string { return CustomersService }

func (r *CustomersReceiver) Dispatch(ctx context.Context, msg *message.Message) (*message.Message, error) {
	op, ok := ParseCustomersOp(msg.Method)
	if !ok {
		return nil, &dispatch.MethodNotHandledError{Service: CustomersService, Method: msg.Method}
	}

	switch op {
	case OpCreateCustomer:
		arg, err := DecodeCustomer(codec.NewDecoder(msg.Payload))
		if err != nil {
			return nil, &dispatch.DeserializationError{Type: "Customer", Err: err}
		}
		reply, err := r.impl.CreateCustomer(ctx, arg)
		if err != nil {
			return nil, err
		}
		return encodeReply(op.Method(), "CreateCustomerReply", func(e *codec.Encoder) error {
			return EncodeCreateCustomerReply(e, reply)
		})

	case OpFindCustomer:
		id, err := codec.NewDecoder(msg.Payload).String()
		if err != nil {
			return nil, &dispatch.DeserializationError{Type: "String", Err: err}
		}
		reply, err := r.impl.FindCustomer(ctx, id)
		if err != nil {
			return nil, err
		}
		return encodeReply(op.Method(), "FindCustomerReply", func(e *codec.Encoder) error {
			return EncodeFindCustomerReply(e, reply)
		})

	case OpHealthz:
		arg, err := DecodeHealthzRequest(codec.NewDecoder(msg.Payload))
		if err != nil {
			return nil, &dispatch.DeserializationError{Type: "HealthzRequest", Err: err}
		}
		reply, err := r.impl.Healthz(ctx, arg)
		if err != nil {
			return nil, err
		}
		return encodeReply(op.Method(), "HealthzReply", func(e *codec.Encoder) error {
			return EncodeHealthzReply(e, reply)
		})
	}

	return nil, &dispatch.MethodNotHandledError{Service: CustomersService, Method: msg.Method}
}

// CustomerGroupsReceiver routes incoming CustomerGroups messages.
type CustomerGroupsReceiver struct {
	impl CustomerGroups
}

func NewCustomerGroupsReceiver(impl CustomerGroups) *CustomerGroupsReceiver {
	return &CustomerGroupsReceiver{impl: impl}
}

func (r *CustomerGroupsReceiver) ServiceName() string { return CustomerGroupsService }

func (r *CustomerGroupsReceiver) Dispatch(ctx context.Context, msg *message.Message) (*message.Message, error) {
	op, ok := ParseCustomerGroupsOp(msg.Method)
	if !ok {
		return nil, &dispatch.MethodNotHandledError{Service: CustomerGroupsService, Method: msg.Method}
	}

	switch op {
	case OpCreateCustomerGroup:
		arg, err := DecodeCustomerGroup(codec.NewDecoder(msg.Payload))
		if err != nil {
			return nil, &dispatch.DeserializationError{Type: "CustomerGroup", Err: err}
		}
		reply, err := r.impl.CreateCustomerGroup(ctx, arg)
		if err != nil {
			return nil, err
		}
		return encodeReply(op.Method(), "CreateCustomerGroupReply", func(e *codec.Encoder) error {
			return EncodeCreateCustomerGroupReply(e, reply)
		})

	case OpAddCustomer:
		arg, err := DecodeAddCustomerRequest(codec.NewDecoder(msg.Payload))
		if err != nil {
			return nil, &dispatch.DeserializationError{Type: "AddCustomerRequest", Err: err}
		}
		reply, err := r.impl.AddCustomer(ctx, arg)
		if err != nil {
			return nil, err
		}
		return encodeReply(op.Method(), "AddCustomerReply", func(e *codec.Encoder) error {
			return EncodeAddCustomerReply(e, reply)
		})

	case OpListCustomers:
		group, err := codec.NewDecoder(msg.Payload).String()
		if err != nil {
			return nil, &dispatch.DeserializationError{Type: "String", Err: err}
		}
		reply, err := r.impl.ListCustomers(ctx, group)
		if err != nil {
			return nil, err
		}
		return encodeReply(op.Method(), "ListCustomersReply", func(e *codec.Encoder) error {
			return EncodeListCustomersReply(e, reply)
		})
	}

	return nil, &dispatch.MethodNotHandledError{Service: CustomerGroupsService, Method: msg.Method}
}

// encodeReply encodes a handler's successful result into a response
// envelope; encode failures are reported as SerializationError, distinct
// from request-side decode failures.
func encodeReply(method, typeName string, encode func(*codec.Encoder) error) (*message.Message, error) {
	e := codec.NewEncoder(codec.LayoutMap)
	if err := encode(e); err != nil {
		return nil, &dispatch.SerializationError{Type: typeName, Err: err}
	}
	return &message.Message{Method: method, Payload: e.Bytes()}, nil
}
