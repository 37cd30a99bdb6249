package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	config "github.com/akramjonkamolov673/cyberarena/configs"
)

var oauthClient = &http.Client{Timeout: 10 * time.Second}

// OAuthProfile is what either provider resolves to before account lookup.
type OAuthProfile struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
}

// ExchangeGoogleCode trades an authorization code for a Google access token.
func ExchangeGoogleCode(ctx context.Context, code string) (string, error) {
	clientID := config.Config("GOOGLE_CLIENT_ID")
	clientSecret := config.Config("GOOGLE_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		return "", fmt.Errorf("google oauth is not configured")
	}

	form := url.Values{
		"code":          {code},
		"client_id":     {clientID},
		"client_secret": {clientSecret},
		"redirect_uri":  {config.Config("GOOGLE_REDIRECT_URI")},
		"grant_type":    {"authorization_code"},
	}
	req, err := http.NewRequestWithContext(ctx, "POST", "https://oauth2.googleapis.com/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := oauthClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("google code exchange failed, status: %s", resp.Status)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("google code exchange: no access_token")
	}
	return body.AccessToken, nil
}

// FetchGoogleProfile resolves a Google access token to a profile. Accounts
// without a visible email fall back to the stable google_<sub> username.
func FetchGoogleProfile(ctx context.Context, accessToken string) (OAuthProfile, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", "https://www.googleapis.com/oauth2/v3/userinfo", nil)
	if err != nil {
		return OAuthProfile{}, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := oauthClient.Do(req)
	if err != nil {
		return OAuthProfile{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return OAuthProfile{}, fmt.Errorf("invalid google token")
	}

	var info struct {
		Sub        string `json:"sub"`
		Email      string `json:"email"`
		Name       string `json:"name"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return OAuthProfile{}, err
	}

	profile := OAuthProfile{
		Email:     info.Email,
		FirstName: info.GivenName,
		LastName:  info.FamilyName,
	}
	if profile.FirstName == "" {
		profile.FirstName = info.Name
	}
	if info.Email != "" {
		profile.Username = info.Email
	} else {
		if info.Sub == "" {
			return OAuthProfile{}, fmt.Errorf("google response malformed: no email or sub")
		}
		profile.Username = "google_" + info.Sub
		profile.Email = profile.Username + "@example.com"
	}
	return profile, nil
}

// ExchangeGitHubCode trades an authorization code for a GitHub access token.
func ExchangeGitHubCode(ctx context.Context, code string) (string, error) {
	form := url.Values{
		"client_id":     {config.Config("GITHUB_CLIENT_ID")},
		"client_secret": {config.Config("GITHUB_CLIENT_SECRET")},
		"code":          {code},
	}
	if redirect := config.Config("GITHUB_REDIRECT_URI"); redirect != "" {
		form.Set("redirect_uri", redirect)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", "https://github.com/login/oauth/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := oauthClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("invalid github code")
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("invalid github code")
	}
	return body.AccessToken, nil
}

// FetchGitHubProfile resolves a GitHub access token to a profile, falling
// back to the primary verified email and then the noreply address.
func FetchGitHubProfile(ctx context.Context, accessToken string) (OAuthProfile, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", "https://api.github.com/user", nil)
	if err != nil {
		return OAuthProfile{}, err
	}
	req.Header.Set("Authorization", "token "+accessToken)

	resp, err := oauthClient.Do(req)
	if err != nil {
		return OAuthProfile{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return OAuthProfile{}, fmt.Errorf("invalid github token")
	}

	var info struct {
		Login string `json:"login"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return OAuthProfile{}, err
	}
	if info.Login == "" {
		return OAuthProfile{}, fmt.Errorf("github response missing login")
	}

	email := info.Email
	if email == "" {
		email = fetchGitHubPrimaryEmail(ctx, accessToken)
	}
	if email == "" {
		email = info.Login + "@users.noreply.github.com"
	}

	return OAuthProfile{Username: info.Login, Email: email, FirstName: info.Name}, nil
}

func fetchGitHubPrimaryEmail(ctx context.Context, accessToken string) string {
	req, err := http.NewRequestWithContext(ctx, "GET", "https://api.github.com/user/emails", nil)
	if err != nil {
		return ""
	}
	req.Header.Set("Authorization", "token "+accessToken)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := oauthClient.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&emails); err != nil {
		return ""
	}
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email
		}
	}
	return ""
}
