package dom

import "fmt"

// DOMException names used by this package.
const (
	HierarchyRequestError = "HierarchyRequestError"
	NotFoundError         = "NotFoundError"
	InvalidCharacterError = "InvalidCharacterError"
	SyntaxError           = "SyntaxError"
	InvalidStateError     = "InvalidStateError"
)

// DOMError is a DOMException: Name is one of the constants above.
type DOMError struct {
	Name    string
	Message string
}

func (e *DOMError) Error() string {
	return e.Name + ": " + e.Message
}

func domError(name, format string, args ...any) *DOMError {
	return &DOMError{Name: name, Message: fmt.Sprintf(format, args...)}
}
