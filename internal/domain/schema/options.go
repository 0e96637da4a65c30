package schema

// Option configures Resolve.
type Option func(*resolver)

// WithWordBoundary restricts the substring tier to whole-token matches:
// the candidate's tokens must appear as a contiguous run of the column's
// tokens, where tokens are split on anything that is not a letter or digit.
// Short codes such as "ga" then stop matching inside unrelated names like
// "organizer".
func WithWordBoundary(enabled bool) Option {
	return func(r *resolver) {
		r.wordBoundary = enabled
	}
}
