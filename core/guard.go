package core

// Decision is the outcome of an access check.
type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// CanProceed allows continuation only for a result that resolved to a live
// principal. Errors, including store failures, always deny.
func CanProceed(r SessionResult) Decision {
	if r.Valid() {
		return Allow
	}
	return Deny
}
