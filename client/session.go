package client

import (
	"net/http"
)

// Profile is the authenticated user as returned by /api/users/me.
type Profile struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Details   struct {
		Avatar   *string `json:"avatar"`
		Group    *string `json:"group"`
		Rank     int     `json:"rank"`
		Role     string  `json:"role"`
		Bio      *string `json:"bio"`
		JoinedAt string  `json:"joined_at"`
	} `json:"profile"`
}

// Session couples a Client with the profile of the logged-in user.
type Session struct {
	Client  *Client
	Profile *Profile
}

func NewSession(baseURL string) *Session {
	return &Session{Client: New(baseURL)}
}

// Init primes the CSRF cookie and, when a token pair is already installed,
// loads the current profile. A dead token clears the session instead of
// failing Init.
func (s *Session) Init() error {
	if err := s.Client.Get("/api/users/csrf", nil); err != nil {
		return err
	}

	if access, _ := s.Client.tokens(); access == "" {
		return nil
	}
	var profile Profile
	if err := s.Client.Get("/api/users/me", &profile); err != nil {
		if err == ErrSessionExpired {
			s.Clear()
			return nil
		}
		return err
	}
	s.Profile = &profile
	return nil
}

// LoggedIn reports whether the session holds an authenticated user.
func (s *Session) LoggedIn() bool {
	return s.Profile != nil
}

// IsTeacher reports whether the logged-in user has the teacher role.
func (s *Session) IsTeacher() bool {
	return s.Profile != nil && s.Profile.Details.Role == "teacher"
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authPayload struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

// Login authenticates with username (or email) and password. The profile,
// including the role, is always re-fetched from the server rather than taken
// from the login response.
func (s *Session) Login(creds Credentials) error {
	var resp authPayload
	if err := s.Client.Post("/api/users/login", creds, &resp); err != nil {
		return err
	}
	s.Client.SetTokens(resp.Token, resp.RefreshToken)
	return s.loadProfile()
}

// LoginOAuth finishes a Google or GitHub flow with the provider's code.
func (s *Session) LoginOAuth(provider, code string) error {
	var resp authPayload
	if err := s.Client.Post("/api/users/"+provider, map[string]string{"code": code}, &resp); err != nil {
		return err
	}
	s.Client.SetTokens(resp.Token, resp.RefreshToken)
	return s.loadProfile()
}

func (s *Session) loadProfile() error {
	var profile Profile
	if err := s.Client.Get("/api/users/me", &profile); err != nil {
		return err
	}
	s.Profile = &profile
	return nil
}

// Clear logs out server-side on a best-effort basis and drops all local
// session state.
func (s *Session) Clear() {
	if access, _ := s.Client.tokens(); access != "" {
		_ = s.Client.Request(http.MethodPost, "/api/users/logout", nil, nil)
	}
	s.Client.ClearTokens()
	s.Profile = nil
}
