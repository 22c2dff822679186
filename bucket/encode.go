package bucket

import "sharedbucket/codec"

// wireField is one field of a struct on the encode path. Fields are listed
// in wire-position order; name is the map-layout key.
type wireField struct {
	name   string
	absent bool // optional field with no value, written as an explicit nil
	write  func(e *codec.Encoder) error
}

func strField(name, v string) wireField {
	return wireField{name: name, write: func(e *codec.Encoder) error {
		e.String(v)
		return nil
	}}
}

func optStrField(name string, v *string) wireField {
	if v == nil {
		return wireField{name: name, absent: true}
	}
	return strField(name, *v)
}

func boolField(name string, v bool) wireField {
	return wireField{name: name, write: func(e *codec.Encoder) error {
		e.Bool(v)
		return nil
	}}
}

// encodeStruct writes one struct value in the encoder's configured layout.
// Array layout writes every field at its wire position (absent optionals as
// nil); map layout writes name/value pairs with nil values for absence.
// Both paths come from this single function, so every schema type gets both
// layouts for free.
func encodeStruct(e *codec.Encoder, fields []wireField) error {
	if e.Layout == codec.LayoutArray {
		if err := e.ArrayHeader(len(fields)); err != nil {
			return err
		}
		for _, f := range fields {
			if f.absent {
				e.Nil()
				continue
			}
			if err := f.write(e); err != nil {
				return err
			}
		}
		return nil
	}

	if err := e.MapHeader(len(fields)); err != nil {
		return err
	}
	for _, f := range fields {
		e.String(f.name)
		if f.absent {
			e.Nil()
			continue
		}
		if err := f.write(e); err != nil {
			return err
		}
	}
	return nil
}

func EncodeCustomer(e *codec.Encoder, v *Customer) error {
	return encodeStruct(e, []wireField{
		optStrField("address", v.Address),
		optStrField("city", v.City),
		strField("email", v.Email),
		strField("firstName", v.FirstName),
		optStrField("id", v.ID),
		optStrField("lastName", v.LastName),
		optStrField("telephone", v.Telephone),
	})
}

func EncodeCustomerGroup(e *codec.Encoder, v *CustomerGroup) error {
	customers := wireField{name: "customers", absent: v.Customers == nil}
	if !customers.absent {
		members := v.Customers
		customers.write = func(e *codec.Encoder) error {
			if err := e.ArrayHeader(len(members)); err != nil {
				return err
			}
			for _, id := range members {
				e.String(id)
			}
			return nil
		}
	}
	return encodeStruct(e, []wireField{
		customers,
		strField("name", v.Name),
	})
}

func EncodeCreateCustomerReply(e *codec.Encoder, v *CreateCustomerReply) error {
	return encodeStruct(e, []wireField{
		strField("id", v.ID),
		boolField("success", v.Success),
	})
}

func EncodeFindCustomerReply(e *codec.Encoder, v *FindCustomerReply) error {
	customer := wireField{name: "customer", absent: v.Customer == nil}
	if !customer.absent {
		c := v.Customer
		customer.write = func(e *codec.Encoder) error {
			return EncodeCustomer(e, c)
		}
	}
	return encodeStruct(e, []wireField{customer})
}

func EncodeCreateCustomerGroupReply(e *codec.Encoder, v *CreateCustomerGroupReply) error {
	return encodeStruct(e, []wireField{boolField("success", v.Success)})
}

func EncodeAddCustomerRequest(e *codec.Encoder, v *AddCustomerRequest) error {
	return encodeStruct(e, []wireField{
		strField("customer", v.Customer),
		strField("group", v.Group),
	})
}

func EncodeAddCustomerReply(e *codec.Encoder, v *AddCustomerReply) error {
	return encodeStruct(e, []wireField{boolField("success", v.Success)})
}

func EncodeListCustomersReply(e *codec.Encoder, v ListCustomersReply) error {
	if err := e.ArrayHeader(len(v)); err != nil {
		return err
	}
	for i := range v {
		if err := EncodeCustomer(e, &v[i]); err != nil {
			return err
		}
	}
	return nil
}

func EncodeHealthzRequest(e *codec.Encoder, _ *HealthzRequest) error {
	return encodeStruct(e, nil)
}

func EncodeHealthzReply(e *codec.Encoder, v *HealthzReply) error {
	return encodeStruct(e, []wireField{boolField("success", v.Success)})
}
