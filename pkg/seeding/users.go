// pkg/seeding/users.go

package seeding

import (
	"fmt"

	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/iam"
)

// UserNaming derives deterministic user attributes from a 1-based index.
type UserNaming struct {
	Prefix         string
	FirstName      string
	LastNamePrefix string
	EmailPrefix    string
	EmailDomain    string
}

func pad(i int) string {
	return fmt.Sprintf("%03d", i)
}

// Username returns Prefix followed by i zero-padded to three digits.
func (n UserNaming) Username(i int) string {
	return n.Prefix + pad(i)
}

// User returns the full spec for index i.
func (n UserNaming) User(i int) iam.UserSpec {
	p := pad(i)
	return iam.UserSpec{
		Username:  n.Prefix + p,
		FirstName: n.FirstName,
		LastName:  n.LastNamePrefix + p,
		Email:     n.EmailPrefix + p + "@" + n.EmailDomain,
	}
}

// Range describes the usernames for 1..count, e.g. "perf-user-001 through perf-user-050".
func (n UserNaming) Range(count int) string {
	switch {
	case count <= 0:
		return "none"
	case count == 1:
		return n.Username(1)
	default:
		return n.Username(1) + " through " + n.Username(count)
	}
}
