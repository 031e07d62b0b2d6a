package compose

import "strings"

// AssertionFailure identifies one violated invariant: the fragment that
// declared it and its human-readable message.
type AssertionFailure struct {
	Fragment string
	Message  string
}

// CompositionError reports every assertion that failed during a composition
// pass. Assertions are not short-circuited: configuration defects are
// typically fixed in batches, so the full set is more useful than the first.
type CompositionError struct {
	Failures []AssertionFailure
}

// Error implements the error interface, listing every failure.
func (e *CompositionError) Error() string {
	messages := make([]string, len(e.Failures))
	for i, failure := range e.Failures {
		messages[i] = failure.Message + " (fragment '" + failure.Fragment + "')"
	}
	return "composition failed:\n- " + strings.Join(messages, "\n- ")
}
