package gtd

import "errors"

// Status sentinels for the transport-agnostic contract. The API layer maps
// them to 401/403/404; everything else surfaces as a server error.
var (
	// ErrUnauthorized means no caller identity was supplied at all. It is
	// checked before any entity lookup.
	ErrUnauthorized = errors.New("authentication required")

	// ErrForbidden means the entity exists and is active but belongs to
	// someone else, or a disable was attempted on an already-inactive row.
	ErrForbidden = errors.New("permission denied")

	// ErrNotFound covers both a missing id and an inactive row; the two are
	// deliberately indistinguishable to the caller.
	ErrNotFound = errors.New("not found")
)

// Field error messages, kept stable because clients key on them.
const (
	msgBlank          = "This field may not be blank."
	msgNull           = "This field may not be null."
	msgInvalidChoice  = "Not a valid choice."
	msgDuplicatePlace = "A place with this name already exists."
)

// ValidationErrors is a field-scoped error set. A failed validation aborts
// the whole operation before any write.
type ValidationErrors map[string][]string

func (v ValidationErrors) Error() string {
	for field, msgs := range v {
		if len(msgs) > 0 {
			return field + ": " + msgs[0]
		}
	}
	return "validation failed"
}

func (v ValidationErrors) add(field, msg string) {
	v[field] = append(v[field], msg)
}

func (v ValidationErrors) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}
