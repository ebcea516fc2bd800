package kernel

// Error describes a kernel-side failure. Errors are declared as package-level
// pointers to Error so that reporting them never touches the allocator; callers
// compare against the sentinel directly.
type Error struct {
	// The module that reported the error.
	Module string

	// The error message
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Module + ": " + e.Message
}
