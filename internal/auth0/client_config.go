package auth0

// ClientConfig is what a public client needs to run the Authorization Code
// flow with PKCE against the tenant.
type ClientConfig struct {
	AuthorizationURL    string   `json:"authorization_url"`
	TokenURL            string   `json:"token_url"`
	ClientID            string   `json:"client_id"`
	Audience            string   `json:"audience"`
	Scopes              []string `json:"scopes"`
	CodeChallengeMethod string   `json:"code_challenge_method"`
}

func NewClientConfig(domainURL, clientID, audience string) ClientConfig {
	return ClientConfig{
		AuthorizationURL:    domainURL + "/authorize",
		TokenURL:            domainURL + "/oauth/token",
		ClientID:            clientID,
		Audience:            audience,
		Scopes:              []string{"openid", "email", "profile"},
		CodeChallengeMethod: "S256",
	}
}
