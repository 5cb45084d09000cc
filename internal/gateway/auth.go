package gateway

import "context"

// AuthAPI covers the backend's /auth surface. Every operation except
// Withdraw goes out without credentials.
type AuthAPI struct {
	client *Client
}

// Credentials is the login payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is what the backend returns on a successful login. Name is
// optional; callers fall back to Username for display.
type LoginResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Name     string `json:"name,omitempty"`
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
}

// Message is the backend's generic confirmation payload.
type Message struct {
	Message string `json:"message"`
}

// FindIDResult carries the recovered username.
type FindIDResult struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

// Login exchanges credentials for a bearer token. A 401 here means the
// credentials were wrong, not that a session expired.
func (a *AuthAPI) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	var result LoginResult
	err := a.client.post(ctx, "/auth/login", creds, &result)
	return result, err
}

// Register creates a new account pending email verification.
func (a *AuthAPI) Register(ctx context.Context, in RegisterInput) (Message, error) {
	var result Message
	err := a.client.post(ctx, "/auth/register", in, &result)
	return result, err
}

// VerifyEmail confirms the 6-digit code mailed during registration.
func (a *AuthAPI) VerifyEmail(ctx context.Context, email, code string) (Message, error) {
	var result Message
	err := a.client.post(ctx, "/auth/verify-email", map[string]string{
		"email": email,
		"token": code,
	}, &result)
	return result, err
}

// ResendVerification mails a fresh verification code.
func (a *AuthAPI) ResendVerification(ctx context.Context, email string) (Message, error) {
	var result Message
	err := a.client.post(ctx, "/auth/resend-verification", map[string]string{
		"email": email,
	}, &result)
	return result, err
}

// SendFindIDCode starts the username recovery flow.
func (a *AuthAPI) SendFindIDCode(ctx context.Context, email string) (Message, error) {
	var result Message
	err := a.client.post(ctx, "/auth/find-id/send-code", map[string]string{
		"email": email,
	}, &result)
	return result, err
}

// VerifyFindIDCode completes the username recovery flow.
func (a *AuthAPI) VerifyFindIDCode(ctx context.Context, email, code string) (FindIDResult, error) {
	var result FindIDResult
	err := a.client.post(ctx, "/auth/find-id/verify-code", map[string]string{
		"email": email,
		"code":  code,
	}, &result)
	return result, err
}

// SendResetPasswordCode starts the password reset flow.
func (a *AuthAPI) SendResetPasswordCode(ctx context.Context, username, email string) (Message, error) {
	var result Message
	err := a.client.post(ctx, "/auth/reset-password/send-code", map[string]string{
		"username": username,
		"email":    email,
	}, &result)
	return result, err
}

// VerifyResetPasswordCode checks the reset code before a new password is set.
func (a *AuthAPI) VerifyResetPasswordCode(ctx context.Context, username, email, code string) (Message, error) {
	var result Message
	err := a.client.post(ctx, "/auth/reset-password/verify-code", map[string]string{
		"username": username,
		"email":    email,
		"code":     code,
	}, &result)
	return result, err
}

// SetNewPassword finishes the password reset flow.
func (a *AuthAPI) SetNewPassword(ctx context.Context, username, email, code, newPassword string) (Message, error) {
	var result Message
	err := a.client.post(ctx, "/auth/reset-password/set-new", map[string]string{
		"username":    username,
		"email":       email,
		"code":        code,
		"newPassword": newPassword,
	}, &result)
	return result, err
}

// Withdraw deletes the calling user's account. The password is re-checked by
// the backend before deletion.
func (a *AuthAPI) Withdraw(ctx context.Context, password string) (Message, error) {
	var result Message
	err := a.client.post(ctx, "/auth/withdraw", map[string]string{
		"password": password,
	}, &result)
	return result, err
}
