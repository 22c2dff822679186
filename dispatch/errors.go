package dispatch

import "fmt"

// MethodNotHandledError reports a method that matched no registered
// service or operation. It always reaches the caller.
type MethodNotHandledError struct {
	Service string
	Method  string
}

func (e *MethodNotHandledError) Error() string {
	if e.Service == "" {
		return fmt.Sprintf("%s: method not handled", e.Method)
	}
	return fmt.Sprintf("%s: method not handled by service %s", e.Method, e.Service)
}

// DeserializationError reports that a request payload could not be decoded
// into the operation's argument type. The handler is never invoked when
// this is returned.
type DeserializationError struct {
	Type string // schema type that failed to decode
	Err  error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("deserializing %s: %v", e.Type, e.Err)
}

func (e *DeserializationError) Unwrap() error { return e.Err }

// SerializationError reports that a handler's reply could not be encoded.
type SerializationError struct {
	Type string
	Err  error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serializing %s: %v", e.Type, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }
