package customers

import "fmt"

// GroupExistsError reports a create against a group name already in use.
type GroupExistsError struct {
	Name string
}

func (e *GroupExistsError) Error() string {
	return fmt.Sprintf("customer group %q already exists", e.Name)
}

// GroupNotFoundError reports an operation against a group that is not in
// the store.
type GroupNotFoundError struct {
	Name string
}

func (e *GroupNotFoundError) Error() string {
	return fmt.Sprintf("customer group %q not found", e.Name)
}
