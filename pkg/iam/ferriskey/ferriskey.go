// pkg/iam/ferriskey/ferriskey.go
//
// FerrisKey admin API adapter. FerrisKey accepts the snake_case client
// descriptor as-is and generates client secrets itself; entity ids come back
// either at the top level or under "data".

package ferriskey

import (
	"context"
	"net/http"
	"time"

	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/iam"
	cerr "github.com/cockroachdb/errors"
	"github.com/go-resty/resty/v2"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Options configures a FerrisKey provider.
type Options struct {
	BaseURL      string
	AdminRealm   string
	Username     string
	Password     string
	ClientID     string // required: FerrisKey has no built-in admin client
	ClientSecret string // only sent when set
	Timeout      time.Duration
}

// Provider talks to the FerrisKey admin REST API.
type Provider struct {
	opts Options
	http *resty.Client
}

var (
	_ iam.Provider       = (*Provider)(nil)
	_ iam.SecretResolver = (*Provider)(nil)
)

// New returns a FerrisKey provider. No request is made until Authenticate.
func New(opts Options) *Provider {
	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetHeader("Accept", "application/json")
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	return &Provider{opts: opts, http: client}
}

func (p *Provider) Name() string {
	return "FerrisKey"
}

func (p *Provider) request(ctx context.Context, token string) *resty.Request {
	req := p.http.R().SetContext(ctx)
	if token != "" {
		req.SetAuthToken(token)
	}
	return req
}

func (p *Provider) Authenticate(ctx context.Context) (string, error) {
	if p.opts.ClientID == "" {
		return "", iam.Fatalf("ADMIN_CLIENT_ID is required for FerrisKey authentication")
	}

	form := map[string]string{
		"grant_type": "password",
		"client_id":  p.opts.ClientID,
		"username":   p.opts.Username,
		"password":   p.opts.Password,
	}
	if p.opts.ClientSecret != "" {
		form["client_secret"] = p.opts.ClientSecret
	}

	otelzap.Ctx(ctx).Debug("Requesting FerrisKey admin token",
		zap.String("realm", p.opts.AdminRealm),
		zap.String("client_id", p.opts.ClientID),
		zap.String("username", p.opts.Username))

	resp, err := p.request(ctx, "").
		SetPathParam("realm", p.opts.AdminRealm).
		SetFormData(form).
		Post("/realms/{realm}/protocol/openid-connect/token")
	if err != nil {
		return "", iam.Fatal(cerr.Wrap(err, "get admin token"))
	}
	if !resp.IsSuccess() {
		return "", iam.Fatal(statusError("get admin token", resp))
	}

	tok, ok := parseToken(resp.Body())
	if !ok {
		return "", iam.Fatalf("no access_token in response: %s", resp.String())
	}
	return tok.AccessToken, nil
}

func (p *Provider) CreateRealm(ctx context.Context, token, realm string) (iam.Status, error) {
	resp, err := p.request(ctx, token).
		SetBody(map[string]string{"name": realm}).
		Post("/realms")
	if err != nil {
		return 0, cerr.Wrap(err, "create realm")
	}
	switch resp.StatusCode() {
	case http.StatusOK, http.StatusCreated:
		return iam.StatusCreated, nil
	case http.StatusBadRequest, http.StatusConflict:
		otelzap.Ctx(ctx).Debug("Realm may already exist",
			zap.String("realm", realm), zap.Int("status", resp.StatusCode()))
		return iam.StatusExisted, nil
	default:
		return 0, statusError("create realm", resp)
	}
}

func (p *Provider) DeleteRealm(ctx context.Context, token, realm string) (iam.Status, error) {
	resp, err := p.request(ctx, token).
		SetPathParam("realm", realm).
		Delete("/realms/{realm}")
	if err != nil {
		return 0, cerr.Wrap(err, "delete realm")
	}
	switch resp.StatusCode() {
	case http.StatusOK, http.StatusNoContent:
		return iam.StatusDeleted, nil
	case http.StatusNotFound:
		return iam.StatusNotFound, nil
	default:
		return 0, statusError("delete realm", resp)
	}
}

func (p *Provider) CreateClient(ctx context.Context, token, realm string, c iam.ClientDescriptor) (string, error) {
	resp, err := p.request(ctx, token).
		SetPathParam("realm", realm).
		SetBody(map[string]any(c.Clean())).
		Post("/realms/{realm}/clients")
	if err != nil {
		return "", cerr.Wrap(err, "create client")
	}
	switch resp.StatusCode() {
	case http.StatusOK, http.StatusCreated:
		return parseEnvelope(resp.Body()).id(), nil
	case http.StatusBadRequest, http.StatusConflict:
		otelzap.Ctx(ctx).Debug("Client may already exist",
			zap.String("client_id", c.ClientID()), zap.Int("status", resp.StatusCode()))
		return "", nil
	default:
		return "", statusError("create client", resp)
	}
}

// AcceptsClientSecret is false: FerrisKey always generates the secret.
func (p *Provider) AcceptsClientSecret() bool {
	return false
}

// ResolveClientSecret reads the server-generated secret from the client resource.
func (p *Provider) ResolveClientSecret(ctx context.Context, token, realm, clientUUID string) (string, error) {
	resp, err := p.request(ctx, token).
		SetPathParams(map[string]string{"realm": realm, "id": clientUUID}).
		Get("/realms/{realm}/clients/{id}")
	if err != nil {
		return "", cerr.Wrap(err, "get client")
	}
	if resp.StatusCode() != http.StatusOK {
		return "", statusError("get client", resp)
	}
	secret := parseEnvelope(resp.Body()).secret()
	if secret == "" {
		return "", cerr.Newf("client %s has no secret in response", clientUUID)
	}
	return secret, nil
}

func (p *Provider) CreateUser(ctx context.Context, token, realm string, u iam.UserSpec) (string, error) {
	resp, err := p.request(ctx, token).
		SetPathParam("realm", realm).
		SetBody(map[string]any{
			"username":       u.Username,
			"firstname":      u.FirstName,
			"lastname":       u.LastName,
			"email":          u.Email,
			"email_verified": true,
		}).
		Post("/realms/{realm}/users")
	if err != nil {
		return "", cerr.Wrap(err, "create user")
	}
	switch resp.StatusCode() {
	case http.StatusOK, http.StatusCreated:
		return parseEnvelope(resp.Body()).id(), nil
	case http.StatusBadRequest, http.StatusConflict:
		return "", cerr.Wrapf(iam.ErrAlreadyExists, "user %s (HTTP %d)", u.Username, resp.StatusCode())
	default:
		return "", statusError("create user", resp)
	}
}

func (p *Provider) SetUserPassword(ctx context.Context, token, realm, userID, password string) error {
	if userID == "" {
		return iam.ErrMissingUserID
	}
	resp, err := p.request(ctx, token).
		SetPathParams(map[string]string{"realm": realm, "id": userID}).
		SetBody(map[string]any{
			"temporary":       false,
			"credential_type": "password",
			"value":           password,
		}).
		Put("/realms/{realm}/users/{id}/reset-password")
	if err != nil {
		return cerr.Wrap(err, "set password")
	}
	switch resp.StatusCode() {
	case http.StatusOK, http.StatusNoContent:
		return nil
	default:
		return statusError("set password", resp)
	}
}

func statusError(op string, resp *resty.Response) error {
	return cerr.WithStack(&iam.StatusError{Op: op, Code: resp.StatusCode(), Body: resp.String()})
}
