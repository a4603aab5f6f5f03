// pkg/iam/provider.go
//
// Provider is the capability set every IAM backend adapter implements.
// Adapters translate these calls into backend-specific admin API requests and
// normalise the responses. They never exit the process: authentication
// failures are returned marked with ErrFatal, everything else is an ordinary
// error the caller may log and move past.

package iam

import "context"

// Status is the normalised outcome of an idempotent realm operation.
type Status int

const (
	StatusCreated Status = iota + 1
	StatusExisted
	StatusDeleted
	StatusNotFound
)

func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusExisted:
		return "existed"
	case StatusDeleted:
		return "deleted"
	case StatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// UserSpec describes one user to create.
type UserSpec struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
}

// Provider is implemented by each backend adapter.
type Provider interface {
	// Name is the display name, e.g. "Keycloak".
	Name() string

	// Authenticate performs a password grant against the admin realm and
	// returns the bearer token. Errors are fatal (IsFatal reports true).
	Authenticate(ctx context.Context) (string, error)

	// CreateRealm returns StatusCreated or StatusExisted on success.
	CreateRealm(ctx context.Context, token, realm string) (Status, error)

	// DeleteRealm returns StatusDeleted or StatusNotFound on success.
	DeleteRealm(ctx context.Context, token, realm string) (Status, error)

	// CreateClient returns the server UUID of the client. An empty UUID with
	// a nil error means the client was accepted (or already existed) but the
	// server did not say which UUID it has.
	CreateClient(ctx context.Context, token, realm string, c ClientDescriptor) (string, error)

	// CreateUser returns the server UUID of the new user.
	CreateUser(ctx context.Context, token, realm string, u UserSpec) (string, error)

	// SetUserPassword sets a non-temporary password for userID.
	SetUserPassword(ctx context.Context, token, realm, userID, password string) error
}

// SecretResolver is implemented by providers that obtain client secrets from
// the server after creation instead of trusting the configured value.
type SecretResolver interface {
	// AcceptsClientSecret reports whether a caller-chosen secret may be sent
	// in the create-client request.
	AcceptsClientSecret() bool

	// ResolveClientSecret fetches (or generates) the secret of clientUUID.
	ResolveClientSecret(ctx context.Context, token, realm, clientUUID string) (string, error)
}
