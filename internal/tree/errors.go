package tree

// StructuralError reports a malformed configuration tree, such as a cyclic
// reference or an artifact that cannot report an identity. It is not
// retryable; the input tree must be fixed by its producer.
type StructuralError struct {
	Path string
	Msg  string
}

// Error implements the error interface.
func (e *StructuralError) Error() string {
	if e.Path == "" {
		return "structural error: " + e.Msg
	}
	return "structural error at '" + e.Path + "': " + e.Msg
}
