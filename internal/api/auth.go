package api

import (
	"context"
	"net/http"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the payload for creating a new buyer account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var env envelope
	err := c.do(ctx, request{
		op:     "login",
		method: http.MethodPost,
		path:   "/api/user/login",
		body:   loginRequest{Email: email, Password: password},
	}, &env)
	if err != nil {
		return "", err
	}
	return env.Token, nil
}

// Register creates an account and returns the new session token.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	var env envelope
	err := c.do(ctx, request{
		op:     "register",
		method: http.MethodPost,
		path:   "/api/user/register",
		body:   req,
	}, &env)
	if err != nil {
		return "", err
	}
	return env.Token, nil
}

type otpRequest struct {
	Email string `json:"email"`
}

type otpVerifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// SendOTP requests an email verification code, the gate before seller and
// investor applications.
func (c *Client) SendOTP(ctx context.Context, email string) error {
	return c.do(ctx, request{
		op:     "otp_send",
		method: http.MethodPost,
		path:   "/api/otp/send",
		body:   otpRequest{Email: email},
		authed: true,
	}, nil)
}

// VerifyOTP confirms a verification code for the given role ("seller" or
// "investor").
func (c *Client) VerifyOTP(ctx context.Context, role, email, code string) error {
	return c.do(ctx, request{
		op:     "otp_verify",
		method: http.MethodPost,
		path:   "/api/otp/verify/" + role,
		body:   otpVerifyRequest{Email: email, OTP: code},
		authed: true,
	}, nil)
}
