package bucket

import (
	"fmt"

	"sharedbucket/codec"
)

// fieldDecoder is one field of a struct on the decode path, in wire-position
// order. decode consumes exactly the field's value token(s).
type fieldDecoder struct {
	name     string
	required bool
	decode   func(d *codec.Decoder) error
}

// decodeStruct is the single decode entry point for struct values: it peeks
// one marker to select the array or map sub-routine. Unknown trailing array
// positions and unknown map keys are skipped (forward compatibility); a
// required field that never appears fails with MissingFieldError carrying
// the field's wire position.
func decodeStruct(d *codec.Decoder, structName string, fields []fieldDecoder) error {
	seen := make([]bool, len(fields))

	k, err := d.Peek()
	if err != nil {
		return err
	}
	switch k {
	case codec.KindArray:
		n, err := d.ArrayHeader()
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			if i >= len(fields) {
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			}
			if err := fields[i].decode(d); err != nil {
				return err
			}
			seen[i] = true
		}
	case codec.KindMap:
		n, err := d.MapHeader()
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			key, err := d.String()
			if err != nil {
				return err
			}
			idx := -1
			for j := range fields {
				if fields[j].name == key {
					idx = j
					break
				}
			}
			if idx < 0 {
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			}
			if err := fields[idx].decode(d); err != nil {
				return err
			}
			seen[idx] = true
		}
	default:
		return fmt.Errorf("decoding struct %s: expected array or map, found %s", structName, k)
	}

	for i := range fields {
		if fields[i].required && !seen[i] {
			return &codec.MissingFieldError{Struct: structName, Field: fields[i].name, Index: i}
		}
	}
	return nil
}

func decodeStr(into *string) func(*codec.Decoder) error {
	return func(d *codec.Decoder) error {
		s, err := d.String()
		if err != nil {
			return err
		}
		*into = s
		return nil
	}
}

// decodeOptStr leaves *into nil when the wire holds an explicit nil marker.
func decodeOptStr(into **string) func(*codec.Decoder) error {
	return func(d *codec.Decoder) error {
		k, err := d.Peek()
		if err != nil {
			return err
		}
		if k == codec.KindNil {
			return d.Nil()
		}
		s, err := d.String()
		if err != nil {
			return err
		}
		*into = &s
		return nil
	}
}

func decodeBool(into *bool) func(*codec.Decoder) error {
	return func(d *codec.Decoder) error {
		b, err := d.Bool()
		if err != nil {
			return err
		}
		*into = b
		return nil
	}
}

func DecodeCustomer(d *codec.Decoder) (*Customer, error) {
	var v Customer
	err := decodeStruct(d, "Customer", []fieldDecoder{
		{name: "address", decode: decodeOptStr(&v.Address)},
		{name: "city", decode: decodeOptStr(&v.City)},
		{name: "email", required: true, decode: decodeStr(&v.Email)},
		{name: "firstName", required: true, decode: decodeStr(&v.FirstName)},
		{name: "id", decode: decodeOptStr(&v.ID)},
		{name: "lastName", decode: decodeOptStr(&v.LastName)},
		{name: "telephone", decode: decodeOptStr(&v.Telephone)},
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func DecodeCustomerGroup(d *codec.Decoder) (*CustomerGroup, error) {
	var v CustomerGroup
	err := decodeStruct(d, "CustomerGroup", []fieldDecoder{
		{name: "customers", decode: func(d *codec.Decoder) error {
			k, err := d.Peek()
			if err != nil {
				return err
			}
			if k == codec.KindNil {
				return d.Nil()
			}
			n, err := d.ArrayHeader()
			if err != nil {
				return err
			}
			v.Customers = make([]string, 0, n)
			for i := 0; i < n; i++ {
				id, err := d.String()
				if err != nil {
					return err
				}
				v.Customers = append(v.Customers, id)
			}
			return nil
		}},
		{name: "name", required: true, decode: decodeStr(&v.Name)},
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func DecodeCreateCustomerReply(d *codec.Decoder) (*CreateCustomerReply, error) {
	var v CreateCustomerReply
	err := decodeStruct(d, "CreateCustomerReply", []fieldDecoder{
		{name: "id", required: true, decode: decodeStr(&v.ID)},
		{name: "success", required: true, decode: decodeBool(&v.Success)},
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func DecodeFindCustomerReply(d *codec.Decoder) (*FindCustomerReply, error) {
	var v FindCustomerReply
	err := decodeStruct(d, "FindCustomerReply", []fieldDecoder{
		{name: "customer", decode: func(d *codec.Decoder) error {
			k, err := d.Peek()
			if err != nil {
				return err
			}
			if k == codec.KindNil {
				return d.Nil()
			}
			c, err := DecodeCustomer(d)
			if err != nil {
				return &codec.FieldError{Struct: "FindCustomerReply", Field: "customer", Err: err}
			}
			v.Customer = c
			return nil
		}},
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func DecodeCreateCustomerGroupReply(d *codec.Decoder) (*CreateCustomerGroupReply, error) {
	var v CreateCustomerGroupReply
	err := decodeStruct(d, "CreateCustomerGroupReply", []fieldDecoder{
		{name: "success", required: true, decode: decodeBool(&v.Success)},
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func DecodeAddCustomerRequest(d *codec.Decoder) (*AddCustomerRequest, error) {
	var v AddCustomerRequest
	err := decodeStruct(d, "AddCustomerRequest", []fieldDecoder{
		{name: "customer", required: true, decode: decodeStr(&v.Customer)},
		{name: "group", required: true, decode: decodeStr(&v.Group)},
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func DecodeAddCustomerReply(d *codec.Decoder) (*AddCustomerReply, error) {
	var v AddCustomerReply
	err := decodeStruct(d, "AddCustomerReply", []fieldDecoder{
		{name: "success", required: true, decode: decodeBool(&v.Success)},
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func DecodeListCustomersReply(d *codec.Decoder) (ListCustomersReply, error) {
	n, err := d.ArrayHeader()
	if err != nil {
		return nil, err
	}
	out := make(ListCustomersReply, 0, n)
	for i := 0; i < n; i++ {
		c, err := DecodeCustomer(d)
		if err != nil {
			return nil, &codec.FieldError{Struct: "ListCustomersReply", Field: "customers", Err: err}
		}
		out = append(out, *c)
	}
	return out, nil
}

func DecodeHealthzRequest(d *codec.Decoder) (*HealthzRequest, error) {
	if err := decodeStruct(d, "HealthzRequest", nil); err != nil {
		return nil, err
	}
	return &HealthzRequest{}, nil
}

func DecodeHealthzReply(d *codec.Decoder) (*HealthzReply, error) {
	var v HealthzReply
	err := decodeStruct(d, "HealthzReply", []fieldDecoder{
		{name: "success", required: true, decode: decodeBool(&v.Success)},
	})
	if err != nil {
		return nil, err
	}
	return &v, nil
}
