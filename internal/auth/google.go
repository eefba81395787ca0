package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// GoogleUser is the slice of Google's userinfo response the API cares
// about.
type GoogleUser struct {
	Sub     string `json:"sub"` // Google's stable account ID
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleProvider wraps golang.org/x/oauth2 for Google sign-in. The browser
// client completes the consent flow itself and posts the resulting access
// token; the server only resolves that token into a profile.
type GoogleProvider struct {
	config *oauth2.Config
}

// NewGoogleProvider creates a GoogleProvider with the given OAuth app
// credentials.
func NewGoogleProvider(clientID, clientSecret string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
		},
	}
}

// UserInfo resolves an access token obtained by the client into the Google
// user profile. An invalid or expired token surfaces as an error from the
// userinfo endpoint.
func (p *GoogleProvider) UserInfo(ctx context.Context, accessToken string) (*GoogleUser, error) {
	client := p.config.Client(ctx, &oauth2.Token{AccessToken: accessToken})

	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("auth: calling Google userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: Google userinfo returned status %d", resp.StatusCode)
	}

	var user GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("auth: decoding Google userinfo: %w", err)
	}
	if user.Sub == "" || user.Email == "" {
		return nil, fmt.Errorf("auth: Google returned an incomplete profile")
	}

	return &user, nil
}
