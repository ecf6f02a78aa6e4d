package auth0

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2/clientcredentials"
)

// Management calls the Auth0 Management API with a machine-to-machine token.
type Management struct {
	baseURL string
	client  *http.Client
}

// NewManagement builds a client whose token is fetched with the client
// credentials grant and cached until it expires.
func NewManagement(ctx context.Context, domainURL, clientID, clientSecret string) *Management {
	cfg := clientcredentials.Config{
		ClientID:       clientID,
		ClientSecret:   clientSecret,
		TokenURL:       domainURL + "/oauth/token",
		EndpointParams: url.Values{"audience": {domainURL + "/api/v2/"}},
	}
	return &Management{baseURL: domainURL + "/api/v2", client: cfg.Client(ctx)}
}

// CanUpdateEmail reports whether the user signs in with an Auth0 database
// connection. Social identities own their email upstream.
func (m *Management) CanUpdateEmail(ctx context.Context, auth0ID string) (bool, error) {
	body, err := m.do(ctx, http.MethodGet, "/users/"+url.PathEscape(auth0ID)+"?fields=identities", nil)
	if err != nil {
		return false, err
	}

	allowed := false
	gjson.GetBytes(body, "identities.#.provider").ForEach(func(_, provider gjson.Result) bool {
		if provider.String() == "auth0" {
			allowed = true
			return false
		}
		return true
	})
	return allowed, nil
}

// UpdateEmail changes the email and asks Auth0 to send a verification mail.
func (m *Management) UpdateEmail(ctx context.Context, auth0ID, email string) error {
	payload, err := json.Marshal(map[string]interface{}{
		"email":          email,
		"email_verified": false,
		"verify_email":   true,
	})
	if err != nil {
		return err
	}
	_, err = m.do(ctx, http.MethodPatch, "/users/"+url.PathEscape(auth0ID), payload)
	return err
}

func (m *Management) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, m.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("management API %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("management API %s %s returned %d: %s", method, path, resp.StatusCode, gjson.GetBytes(respBody, "message").String())
	}
	return respBody, nil
}
