package domain

// Secret holds a credential. It never prints its value.
type Secret string

const redacted = "[REDACTED]"

// Value returns the raw credential for use in request headers.
func (s Secret) Value() string {
	return string(s)
}

// IsEmpty returns true if no credential is set.
func (s Secret) IsEmpty() bool {
	return s == ""
}

// String implements fmt.Stringer.
func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return redacted
}

// GoString implements fmt.GoStringer so %#v is redacted too.
func (s Secret) GoString() string {
	return s.String()
}

// MarshalText keeps secrets out of JSON and TOML output.
func (s Secret) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
