// pkg/iam/ferriskey/response.go

package ferriskey

import "encoding/json"

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

func parseToken(body []byte) (tokenResponse, bool) {
	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil || tok.AccessToken == "" {
		return tokenResponse{}, false
	}
	return tok, true
}

type entity struct {
	ID     string `json:"id"`
	Secret string `json:"secret"`
}

// envelope covers both {"data": {...}} and bare entity responses.
type envelope struct {
	entity
	Data *entity `json:"data"`
}

// parseEnvelope never fails: malformed bodies yield an empty envelope.
func parseEnvelope(body []byte) envelope {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return envelope{}
	}
	return env
}

func (e envelope) id() string {
	if e.Data != nil && e.Data.ID != "" {
		return e.Data.ID
	}
	return e.ID
}

func (e envelope) secret() string {
	if e.Data != nil && e.Data.Secret != "" {
		return e.Data.Secret
	}
	return e.Secret
}
