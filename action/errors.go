package action

import "fmt"

// AssertionError reports a template binding that cannot work, such as an
// action name that is not a string. It aborts rendering of the element.
type AssertionError struct {
	Message string
}

func (e *AssertionError) Error() string {
	return "Assertion Failed: " + e.Message
}

func quotelessPathError(path string) *AssertionError {
	name := path
	if len(name) > 5 && name[:5] == "this." {
		name = name[5:]
	}
	return &AssertionError{Message: fmt.Sprintf(
		"You specified a quoteless path, `%s`, to the {{action}} helper which did not resolve to an action name (a string). Perhaps you meant to use a quoted actionName? (e.g. {{action \"%s\"}}).",
		path, name,
	)}
}
