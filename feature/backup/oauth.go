package backup

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	tokenRequestTimeout = 15 * time.Second
	// tokenExpirySkew renews tokens slightly before the server-side expiry.
	tokenExpirySkew = 5 * time.Minute
	// defaultTokenLifetime applies when the token response omits expires_in.
	defaultTokenLifetime = 4 * time.Hour
)

// RefreshTokenProvider obtains short-lived storage credentials by exchanging
// a long-lived OAuth refresh token. It plugs into the minio credentials
// chain, which calls Retrieve again whenever IsExpired reports true.
type RefreshTokenProvider struct {
	cfg  Config
	http *http.Client

	mu     sync.Mutex
	expiry time.Time
}

// NewRefreshTokenProvider creates a provider for the given oauth settings.
func NewRefreshTokenProvider(cfg Config) *RefreshTokenProvider {
	return &RefreshTokenProvider{
		cfg:  cfg,
		http: &http.Client{Timeout: tokenRequestTimeout},
	}
}

// Retrieve performs a refresh-token grant and maps the access token onto
// storage credentials.
func (p *RefreshTokenProvider) Retrieve() (credentials.Value, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {p.cfg.RefreshToken},
		"client_id":     {p.cfg.AppKey},
		"client_secret": {p.cfg.AppSecret},
	}

	resp, err := p.http.Post(p.cfg.TokenURL, "application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()))
	if err != nil {
		return credentials.Value{}, fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return credentials.Value{}, fmt.Errorf("token exchange: unexpected status %d", resp.StatusCode)
	}

	var token struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return credentials.Value{}, fmt.Errorf("token exchange: decode response: %w", err)
	}
	if token.AccessToken == "" {
		return credentials.Value{}, fmt.Errorf("token exchange: response carried no access token")
	}

	lifetime := defaultTokenLifetime
	if token.ExpiresIn > 0 {
		lifetime = time.Duration(token.ExpiresIn) * time.Second
	}
	p.mu.Lock()
	p.expiry = time.Now().Add(lifetime - tokenExpirySkew)
	p.mu.Unlock()

	return credentials.Value{
		AccessKeyID:     p.cfg.AppKey,
		SecretAccessKey: token.AccessToken,
		SignerType:      credentials.SignatureV4,
	}, nil
}

// RetrieveWithCredContext satisfies the credentials.Provider interface; the
// exchange uses the provider's own HTTP client.
func (p *RefreshTokenProvider) RetrieveWithCredContext(_ *credentials.CredContext) (credentials.Value, error) {
	return p.Retrieve()
}

// IsExpired reports whether the last issued token is past its renewal point.
func (p *RefreshTokenProvider) IsExpired() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.expiry.IsZero() || time.Now().After(p.expiry)
}
