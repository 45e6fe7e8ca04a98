// Package auth handles registration, login, logout, and session
// resolution for Streamgate. It owns the session cookie contract and the
// middleware that gates every privileged route.
package auth

// RegisterRequest is the body of POST /api/register. The display name
// starts out equal to the username and can be changed later.
type RegisterRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}
