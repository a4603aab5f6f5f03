// pkg/iam/keycloak/keycloak.go
//
// Keycloak admin API adapter built on gocloak.

package keycloak

import (
	"context"
	"net/http"
	"time"

	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/iam"
	"github.com/Nerzal/gocloak/v13"
	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Options configures a Keycloak provider.
type Options struct {
	BaseURL    string
	AdminRealm string
	Username   string
	Password   string
	AuthClient string // client used for the admin password grant, usually admin-cli
	Timeout    time.Duration
}

// Provider talks to the Keycloak admin REST API.
type Provider struct {
	opts   Options
	client *gocloak.GoCloak
}

var (
	_ iam.Provider       = (*Provider)(nil)
	_ iam.SecretResolver = (*Provider)(nil)
)

// New returns a Keycloak provider. No request is made until Authenticate.
func New(opts Options) *Provider {
	if opts.AuthClient == "" {
		opts.AuthClient = "admin-cli"
	}
	client := gocloak.NewClient(opts.BaseURL)
	if opts.Timeout > 0 {
		client.RestyClient().SetTimeout(opts.Timeout)
	}
	return &Provider{opts: opts, client: client}
}

func (p *Provider) Name() string {
	return "Keycloak"
}

func (p *Provider) Authenticate(ctx context.Context) (string, error) {
	logger := otelzap.Ctx(ctx)
	logger.Debug("Requesting Keycloak admin token",
		zap.String("realm", p.opts.AdminRealm),
		zap.String("client_id", p.opts.AuthClient),
		zap.String("username", p.opts.Username))

	jwt, err := p.client.GetToken(ctx, p.opts.AdminRealm, gocloak.TokenOptions{
		GrantType: gocloak.StringP("password"),
		ClientID:  gocloak.StringP(p.opts.AuthClient),
		Username:  gocloak.StringP(p.opts.Username),
		Password:  gocloak.StringP(p.opts.Password),
	})
	if err != nil {
		return "", iam.Fatal(cerr.Wrap(translate("get admin token", err), "authenticate"))
	}
	if jwt == nil || jwt.AccessToken == "" {
		return "", iam.Fatalf("no access_token in Keycloak token response")
	}
	return jwt.AccessToken, nil
}

func (p *Provider) CreateRealm(ctx context.Context, token, realm string) (iam.Status, error) {
	_, err := p.client.CreateRealm(ctx, token, gocloak.RealmRepresentation{
		Realm:       gocloak.StringP(realm),
		Enabled:     gocloak.BoolP(true),
		DisplayName: gocloak.StringP(realm + " Performance Testing"),
	})
	switch {
	case err == nil:
		return iam.StatusCreated, nil
	case apiCode(err) == http.StatusConflict:
		return iam.StatusExisted, nil
	default:
		return 0, translate("create realm", err)
	}
}

func (p *Provider) DeleteRealm(ctx context.Context, token, realm string) (iam.Status, error) {
	err := p.client.DeleteRealm(ctx, token, realm)
	switch {
	case err == nil:
		return iam.StatusDeleted, nil
	case apiCode(err) == http.StatusNotFound:
		return iam.StatusNotFound, nil
	default:
		return 0, translate("delete realm", err)
	}
}

func (p *Provider) CreateClient(ctx context.Context, token, realm string, c iam.ClientDescriptor) (string, error) {
	clientID := c.ClientID()
	uuid, err := p.client.CreateClient(ctx, token, realm, toClient(c))
	if err == nil {
		return uuid, nil
	}
	if apiCode(err) != http.StatusConflict {
		return "", translate("create client", err)
	}

	otelzap.Ctx(ctx).Debug("Client already exists, looking up its UUID",
		zap.String("realm", realm), zap.String("client_id", clientID))
	existing, lookupErr := p.client.GetClients(ctx, token, realm, gocloak.GetClientsParams{
		ClientID: gocloak.StringP(clientID),
	})
	if lookupErr != nil {
		otelzap.Ctx(ctx).Warn("Client UUID lookup failed",
			zap.String("client_id", clientID), zap.Error(lookupErr))
		return "", nil
	}
	if len(existing) == 0 || existing[0].ID == nil {
		return "", nil
	}
	return *existing[0].ID, nil
}

// AcceptsClientSecret is true: Keycloak stores a caller-provided secret as-is.
func (p *Provider) AcceptsClientSecret() bool {
	return true
}

// ResolveClientSecret reads the client secret, generating one when the
// client has none yet.
func (p *Provider) ResolveClientSecret(ctx context.Context, token, realm, clientUUID string) (string, error) {
	cred, err := p.client.GetClientSecret(ctx, token, realm, clientUUID)
	if err == nil && cred != nil && gocloak.PString(cred.Value) != "" {
		return *cred.Value, nil
	}
	if err != nil {
		otelzap.Ctx(ctx).Debug("Reading client secret failed, generating a new one",
			zap.String("client_uuid", clientUUID), zap.Error(err))
	}

	cred, err = p.client.RegenerateClientSecret(ctx, token, realm, clientUUID)
	if err != nil {
		return "", translate("generate client secret", err)
	}
	if cred == nil || gocloak.PString(cred.Value) == "" {
		return "", cerr.Newf("Keycloak returned no secret for client %s", clientUUID)
	}
	return *cred.Value, nil
}

func (p *Provider) CreateUser(ctx context.Context, token, realm string, u iam.UserSpec) (string, error) {
	id, err := p.client.CreateUser(ctx, token, realm, gocloak.User{
		Username:      gocloak.StringP(u.Username),
		FirstName:     gocloak.StringP(u.FirstName),
		LastName:      gocloak.StringP(u.LastName),
		Email:         gocloak.StringP(u.Email),
		EmailVerified: gocloak.BoolP(true),
		Enabled:       gocloak.BoolP(true),
	})
	if err != nil {
		if apiCode(err) == http.StatusConflict {
			return "", cerr.Wrapf(iam.ErrAlreadyExists, "user %s", u.Username)
		}
		return "", translate("create user", err)
	}
	if id == "" {
		return "", cerr.Newf("create user %s: no Location header in response", u.Username)
	}
	return id, nil
}

func (p *Provider) SetUserPassword(ctx context.Context, token, realm, userID, password string) error {
	if userID == "" {
		return iam.ErrMissingUserID
	}
	if err := p.client.SetPassword(ctx, token, userID, realm, password, false); err != nil {
		return translate("set password", err)
	}
	return nil
}

// toClient maps a snake_case descriptor onto the camelCase representation.
func toClient(c iam.ClientDescriptor) gocloak.Client {
	client := gocloak.Client{
		ClientID:                  gocloak.StringP(c.ClientID()),
		Enabled:                   gocloak.BoolP(c.Bool(iam.FieldEnabled, true)),
		Protocol:                  gocloak.StringP(orDefault(c.Str(iam.FieldProtocol), "openid-connect")),
		PublicClient:              gocloak.BoolP(c.Bool(iam.FieldPublicClient, false)),
		ServiceAccountsEnabled:    gocloak.BoolP(c.Bool(iam.FieldServiceAccountEnabled, false)),
		DirectAccessGrantsEnabled: gocloak.BoolP(c.Bool(iam.FieldDirectAccessGrantsEnabled, true)),
		StandardFlowEnabled:       gocloak.BoolP(true),
	}
	if name := c.Str(iam.FieldName); name != "" {
		client.Name = gocloak.StringP(name)
	}
	if secret := c.Str(iam.FieldClientSecret); secret != "" {
		client.Secret = gocloak.StringP(secret)
	}
	return client
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func apiCode(err error) int {
	var apiErr *gocloak.APIError
	if cerr.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

// translate turns a gocloak error into a StatusError when the server answered,
// or a wrapped transport error when it did not.
func translate(op string, err error) error {
	var apiErr *gocloak.APIError
	if cerr.As(err, &apiErr) && apiErr.Code != 0 {
		return cerr.WithStack(&iam.StatusError{Op: op, Code: apiErr.Code, Body: apiErr.Message})
	}
	return cerr.Wrap(err, op)
}
