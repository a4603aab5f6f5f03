// pkg/iam/descriptor.go

package iam

import "strings"

// Descriptor keys understood by the adapters.
const (
	FieldClientID                  = "client_id"
	FieldName                      = "name"
	FieldClientType                = "client_type"
	FieldClientSecret              = "client_secret"
	FieldPublicClient              = "public_client"
	FieldServiceAccountEnabled     = "service_account_enabled"
	FieldDirectAccessGrantsEnabled = "direct_access_grants_enabled"
	FieldProtocol                  = "protocol"
	FieldEnabled                   = "enabled"
)

// ClientDescriptor is a client definition as it appears in a fixture file:
// snake_case keys, passed through to backends that accept that shape.
// Keys starting with "_" are comments.
type ClientDescriptor map[string]any

// ClientID returns the client_id field or "".
func (d ClientDescriptor) ClientID() string {
	return d.Str(FieldClientID)
}

// Str returns key as a string, or "" when absent or not a string.
func (d ClientDescriptor) Str(key string) string {
	s, _ := d[key].(string)
	return s
}

// Bool returns key as a bool, or def when absent or not a bool.
func (d ClientDescriptor) Bool(key string, def bool) bool {
	if b, ok := d[key].(bool); ok {
		return b
	}
	return def
}

// Clean returns a copy without comment keys.
func (d ClientDescriptor) Clean() ClientDescriptor {
	out := make(ClientDescriptor, len(d))
	for k, v := range d {
		if strings.HasPrefix(k, "_") {
			continue
		}
		out[k] = v
	}
	return out
}

// Without returns a copy with key removed.
func (d ClientDescriptor) Without(key string) ClientDescriptor {
	out := make(ClientDescriptor, len(d))
	for k, v := range d {
		if k != key {
			out[k] = v
		}
	}
	return out
}
