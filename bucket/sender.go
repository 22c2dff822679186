package bucket

import (
	"context"

	"sharedbucket/codec"
	"sharedbucket/dispatch"
	"sharedbucket/message"
	"sharedbucket/transport"
)

// CustomersSender is the client stub for the Customers service. It encodes
// the argument, sends one request through the transport, and decodes the
// reply — the transport decides whether the target is in-process or remote.
type CustomersSender struct {
	t transport.Transport
}

// NewCustomersSender constructs a sender over the given transport.
func NewCustomersSender(t transport.Transport) *CustomersSender {
	return &CustomersSender{t: t}
}

var _ Customers = (*CustomersSender)(nil)

func (s *CustomersSender) CreateCustomer(ctx context.Context, arg *Customer) (*CreateCustomerReply, error) {
	resp, err := send(ctx, s.t, OpCreateCustomer.Method(), func(e *codec.Encoder) error {
		return EncodeCustomer(e, arg)
	})
	if err != nil {
		return nil, err
	}
	return decodeReply(resp, "CreateCustomerReply", DecodeCreateCustomerReply)
}

func (s *CustomersSender) FindCustomer(ctx context.Context, id string) (*FindCustomerReply, error) {
	resp, err := send(ctx, s.t, OpFindCustomer.Method(), func(e *codec.Encoder) error {
		e.String(id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return decodeReply(resp, "FindCustomerReply", DecodeFindCustomerReply)
}

func (s *CustomersSender) Healthz(ctx context.Context, arg *HealthzRequest) (*HealthzReply, error) {
	resp, err := send(ctx, s.t, OpHealthz.Method(), func(e *codec.Encoder) error {
		return EncodeHealthzRequest(e, arg)
	})
	if err != nil {
		return nil, err
	}
	return decodeReply(resp, "HealthzReply", DecodeHealthzReply)
}

// CustomerGroupsSender is the client stub for the CustomerGroups service.
type CustomerGroupsSender struct {
	t transport.Transport
}

func NewCustomerGroupsSender(t transport.Transport) *CustomerGroupsSender {
	return &CustomerGroupsSender{t: t}
}

var _ CustomerGroups = (*CustomerGroupsSender)(nil)

func (s *CustomerGroupsSender) CreateCustomerGroup(ctx context.Context, arg *CustomerGroup) (*CreateCustomerGroupReply, error) {
	resp, err := send(ctx, s.t, OpCreateCustomerGroup.Method(), func(e *codec.Encoder) error {
		return EncodeCustomerGroup(e, arg)
	})
	if err != nil {
		return nil, err
	}
	return decodeReply(resp, "CreateCustomerGroupReply", DecodeCreateCustomerGroupReply)
}

func (s *CustomerGroupsSender) AddCustomer(ctx context.Context, arg *AddCustomerRequest) (*AddCustomerReply, error) {
	resp, err := send(ctx, s.t, OpAddCustomer.Method(), func(e *codec.Encoder) error {
		return EncodeAddCustomerRequest(e, arg)
	})
	if err != nil {
		return nil, err
	}
	return decodeReply(resp, "AddCustomerReply", DecodeAddCustomerReply)
}

func (s *CustomerGroupsSender) ListCustomers(ctx context.Context, group string) (ListCustomersReply, error) {
	resp, err := send(ctx, s.t, OpListCustomers.Method(), func(e *codec.Encoder) error {
		e.String(group)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return decodeReply(resp, "ListCustomersReply", DecodeListCustomersReply)
}

func send(ctx context.Context, t transport.Transport, method string, encode func(*codec.Encoder) error) (*message.Message, error) {
	e := codec.NewEncoder(codec.LayoutMap)
	if err := encode(e); err != nil {
		return nil, &dispatch.SerializationError{Type: method, Err: err}
	}
	return t.Send(ctx, &message.Message{Method: method, Payload: e.Bytes()})
}

func decodeReply[T any](resp *message.Message, typeName string, decode func(*codec.Decoder) (T, error)) (T, error) {
	v, err := decode(codec.NewDecoder(resp.Payload))
	if err != nil {
		var zero T
		return zero, &dispatch.DeserializationError{Type: typeName, Err: err}
	}
	return v, nil
}
