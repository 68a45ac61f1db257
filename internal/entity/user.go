package entity

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Profile is the current-user payload returned by the session service.
type Profile struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	About       string `json:"about"`
	Picture     string `json:"picture"`
}

// RegistrationRequest is the body of POST /users/register. Nonce is the
// decimal string form of the solved nonce; Active is always false at
// creation (activation is a separate server-side step).
type RegistrationRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Nonce    string `json:"nonce"`
	Hash     string `json:"hash"`
	Active   bool   `json:"active"`
}

// AuthState is the session manager's observable state.
type AuthState int

const (
	StateAnonymous AuthState = iota
	StateAuthenticating
	StateAuthenticated
)

func (s AuthState) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}
