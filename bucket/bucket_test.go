package bucket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharedbucket/codec"
)

func strptr(s string) *string { return &s }

func sampleCustomer() *Customer {
	return &Customer{
		ID:        strptr("c-001"),
		FirstName: "Ann",
		LastName:  strptr("Archer"),
		Email:     "ann@example.com",
		City:      strptr("Lyon"),
	}
}

func TestCustomerRoundTripBothLayouts(t *testing.T) {
	for _, layout := range []codec.Layout{codec.LayoutMap, codec.LayoutArray} {
		want := sampleCustomer()

		e := codec.NewEncoder(layout)
		require.NoError(t, EncodeCustomer(e, want))

		got, err := DecodeCustomer(codec.NewDecoder(e.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, want, got, "layout %v", layout)
		assert.Nil(t, got.Address)
		assert.Nil(t, got.Telephone)
	}
}

func TestCustomerGroupRoundTripBothLayouts(t *testing.T) {
	for _, layout := range []codec.Layout{codec.LayoutMap, codec.LayoutArray} {
		for _, want := range []*CustomerGroup{
			{Name: "vip", Customers: []string{"c-1", "c-2"}},
			{Name: "empty", Customers: []string{}},
			{Name: "absent"}, // nil member list survives as nil
		} {
			e := codec.NewEncoder(layout)
			require.NoError(t, EncodeCustomerGroup(e, want))

			got, err := DecodeCustomerGroup(codec.NewDecoder(e.Bytes()))
			require.NoError(t, err)
			assert.Equal(t, want, got, "layout %v group %s", layout, want.Name)
		}
	}
}

func TestReplyTypesRoundTrip(t *testing.T) {
	for _, layout := range []codec.Layout{codec.LayoutMap, codec.LayoutArray} {
		e := codec.NewEncoder(layout)
		require.NoError(t, EncodeCreateCustomerReply(e, &CreateCustomerReply{ID: "c-9", Success: true}))
		ccr, err := DecodeCreateCustomerReply(codec.NewDecoder(e.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, "c-9", ccr.ID)
		assert.True(t, ccr.Success)

		e = codec.NewEncoder(layout)
		require.NoError(t, EncodeFindCustomerReply(e, &FindCustomerReply{Customer: sampleCustomer()}))
		fcr, err := DecodeFindCustomerReply(codec.NewDecoder(e.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, sampleCustomer(), fcr.Customer)

		e = codec.NewEncoder(layout)
		require.NoError(t, EncodeFindCustomerReply(e, &FindCustomerReply{}))
		fcr, err = DecodeFindCustomerReply(codec.NewDecoder(e.Bytes()))
		require.NoError(t, err)
		assert.Nil(t, fcr.Customer)

		e = codec.NewEncoder(layout)
		require.NoError(t, EncodeAddCustomerRequest(e, &AddCustomerRequest{Customer: "c-1", Group: "vip"}))
		acr, err := DecodeAddCustomerRequest(codec.NewDecoder(e.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, &AddCustomerRequest{Customer: "c-1", Group: "vip"}, acr)

		e = codec.NewEncoder(layout)
		require.NoError(t, EncodeListCustomersReply(e, ListCustomersReply{*sampleCustomer()}))
		list, err := DecodeListCustomersReply(codec.NewDecoder(e.Bytes()))
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, *sampleCustomer(), list[0])

		e = codec.NewEncoder(layout)
		require.NoError(t, EncodeHealthzReply(e, &HealthzReply{Success: true}))
		hz, err := DecodeHealthzReply(codec.NewDecoder(e.Bytes()))
		require.NoError(t, err)
		assert.True(t, hz.Success)
	}
}

// A decoder built from an older schema must tolerate fields appended by a
// newer encoder: extra array positions and unknown map keys are skipped.
func TestForwardCompatibleDecode(t *testing.T) {
	t.Run("array layout with trailing unknown fields", func(t *testing.T) {
		e := codec.NewEncoder(codec.LayoutArray)
		require.NoError(t, e.ArrayHeader(9))
		e.Nil()                      // address
		e.Nil()                      // city
		e.String("ann@example.com")  // email
		e.String("Ann")              // firstName
		e.Nil()                      // id
		e.Nil()                      // lastName
		e.Nil()                      // telephone
		e.String("gold")             // unknown #7
		require.NoError(t, e.MapHeader(1)) // unknown #8, nested
		e.String("k")
		e.Uint(1)

		got, err := DecodeCustomer(codec.NewDecoder(e.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, "Ann", got.FirstName)
		assert.Equal(t, "ann@example.com", got.Email)
	})

	t.Run("map layout with unknown keys", func(t *testing.T) {
		e := codec.NewEncoder(codec.LayoutMap)
		require.NoError(t, e.MapHeader(3))
		e.String("email")
		e.String("ann@example.com")
		e.String("loyaltyTier")
		e.String("gold")
		e.String("firstName")
		e.String("Ann")

		got, err := DecodeCustomer(codec.NewDecoder(e.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, "Ann", got.FirstName)
	})
}

func TestMissingRequiredField(t *testing.T) {
	// firstName present, email never appears.
	e := codec.NewEncoder(codec.LayoutMap)
	require.NoError(t, e.MapHeader(1))
	e.String("firstName")
	e.String("Ann")

	_, err := DecodeCustomer(codec.NewDecoder(e.Bytes()))

	var missing *codec.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Customer", missing.Struct)
	assert.Equal(t, "email", missing.Field)
	assert.Equal(t, 2, missing.Index)
	assert.EqualError(t, err, "missing field Customer.email (#2)")
}

func TestScalarKindMismatch(t *testing.T) {
	e := codec.NewEncoder(codec.LayoutMap)
	require.NoError(t, e.MapHeader(1))
	e.String("email")
	e.Bool(true)

	_, err := DecodeCustomer(codec.NewDecoder(e.Bytes()))

	var mismatch *codec.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, codec.KindString, mismatch.Expected)
	assert.Equal(t, codec.KindBool, mismatch.Found)
}

func TestNotAStruct(t *testing.T) {
	e := codec.NewEncoder(codec.LayoutMap)
	e.String("just a string")

	_, err := DecodeCustomer(codec.NewDecoder(e.Bytes()))
	assert.ErrorContains(t, err, "decoding struct Customer: expected array or map")
}

// A decode failure inside a nested value must name the path to the failure.
func TestNestedDecodeErrorNamesPath(t *testing.T) {
	e := codec.NewEncoder(codec.LayoutMap)
	require.NoError(t, e.MapHeader(1))
	e.String("customer")
	require.NoError(t, e.MapHeader(1))
	e.String("firstName")
	e.String("Ann") // email missing in the nested customer

	_, err := DecodeFindCustomerReply(codec.NewDecoder(e.Bytes()))

	var fieldErr *codec.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "FindCustomerReply", fieldErr.Struct)
	assert.Equal(t, "customer", fieldErr.Field)

	var missing *codec.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Customer", missing.Struct)
	assert.ErrorContains(t, err, "decoding FindCustomerReply.customer")
}

func TestOpMethodStrings(t *testing.T) {
	assert.Equal(t, "Customers.CreateCustomer", OpCreateCustomer.Method())
	assert.Equal(t, "CustomerGroups.ListCustomers", OpListCustomers.Method())

	op, ok := ParseCustomersOp("Customers.FindCustomer")
	require.True(t, ok)
	assert.Equal(t, OpFindCustomer, op)

	op, ok = ParseCustomersOp("FindCustomer") // bare form
	require.True(t, ok)
	assert.Equal(t, OpFindCustomer, op)

	_, ok = ParseCustomersOp("CustomerGroups.AddCustomer") // wrong service
	assert.False(t, ok)

	_, ok = ParseCustomerGroupsOp("CustomerGroups.DeleteGroup")
	assert.False(t, ok)
}
