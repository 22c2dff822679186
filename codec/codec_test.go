package codec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarRoundTrip(t *testing.T) {
	e := NewEncoder(LayoutMap)
	e.Bool(true)
	e.Bool(false)
	e.Uint(42)
	e.String("hello")
	e.String("")
	e.Nil()

	d := NewDecoder(e.Bytes())

	b, err := d.Bool()
	require.NoError(t, err)
	assert.True(t, b)

	b, err = d.Bool()
	require.NoError(t, err)
	assert.False(t, b)

	u, err := d.Uint()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), u)

	s, err := d.String()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	s, err = d.String()
	require.NoError(t, err)
	assert.Equal(t, "", s)

	require.NoError(t, d.Nil())
}

func TestContainerRoundTrip(t *testing.T) {
	e := NewEncoder(LayoutMap)
	require.NoError(t, e.ArrayHeader(2))
	e.String("a")
	e.String("b")
	require.NoError(t, e.MapHeader(1))
	e.String("key")
	e.Uint(7)

	d := NewDecoder(e.Bytes())

	n, err := d.ArrayHeader()
	require.NoError(t, err)
	require.Equal(t, 2, n)
	for _, want := range []string{"a", "b"} {
		got, err := d.String()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	n, err = d.MapHeader()
	require.NoError(t, err)
	require.Equal(t, 1, n)
	k, err := d.String()
	require.NoError(t, err)
	assert.Equal(t, "key", k)
	v, err := d.Uint()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), v)
}

func TestPeekDoesNotConsume(t *testing.T) {
	e := NewEncoder(LayoutMap)
	e.String("x")

	d := NewDecoder(e.Bytes())
	for i := 0; i < 3; i++ {
		k, err := d.Peek()
		require.NoError(t, err)
		assert.Equal(t, KindString, k)
	}
	s, err := d.String()
	require.NoError(t, err)
	assert.Equal(t, "x", s)
}

func TestSkipNestedContainers(t *testing.T) {
	// A map holding an array holding a map — Skip must consume all of it,
	// leaving the cursor on the trailing sentinel.
	e := NewEncoder(LayoutMap)
	require.NoError(t, e.MapHeader(1))
	e.String("outer")
	require.NoError(t, e.ArrayHeader(2))
	require.NoError(t, e.MapHeader(1))
	e.String("inner")
	e.Nil()
	e.Bool(true)
	e.String("sentinel")

	d := NewDecoder(e.Bytes())
	require.NoError(t, d.Skip())

	s, err := d.String()
	require.NoError(t, err)
	assert.Equal(t, "sentinel", s)
}

func TestTypeMismatch(t *testing.T) {
	e := NewEncoder(LayoutMap)
	e.Uint(1)

	d := NewDecoder(e.Bytes())
	_, err := d.String()

	var mismatch *TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, KindString, mismatch.Expected)
	assert.Equal(t, KindUint, mismatch.Found)
}

func TestTruncatedInput(t *testing.T) {
	e := NewEncoder(LayoutMap)
	e.String("hello world")
	data := e.Bytes()

	// Cut the string body short.
	d := NewDecoder(data[:len(data)-4])
	_, err := d.String()
	assert.True(t, errors.Is(err, ErrTruncated))

	// Empty input.
	_, err = NewDecoder(nil).Peek()
	assert.True(t, errors.Is(err, ErrTruncated))
}

func TestUnknownMarker(t *testing.T) {
	d := NewDecoder([]byte{0xff})
	_, err := d.Peek()
	require.Error(t, err)
}

func TestHeaderLengthRange(t *testing.T) {
	e := NewEncoder(LayoutMap)
	assert.Error(t, e.ArrayHeader(1<<16))
	assert.Error(t, e.MapHeader(-1))
}
