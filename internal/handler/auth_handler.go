package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/RazvanGorea/show-and-tell-api/internal/service"
	"github.com/gin-gonic/gin"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleSignInRequest struct {
	AccessToken string `json:"accessToken"`
}

type resetCodeRequest struct {
	Email string `json:"email"`
}

type checkResetCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type resetPasswordRequest struct {
	Email    string `json:"email"`
	Code     string `json:"code"`
	Password string `json:"password"`
}

// Signup registers a new account and returns a session token.
func (a *API) Signup(c *gin.Context) {
	var payload signupRequest
	if !bindJSON(c, &payload, "name, email and password are required") {
		return
	}

	token, err := a.auth.Signup(payload.Name, payload.Email, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSignupInput):
			respondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrEmailTaken):
			respondError(c, http.StatusConflict, "email already registered")
		default:
			log.Printf("signup: %v", err)
			respondError(c, http.StatusInternalServerError, "failed to create account")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token})
}

// Login verifies credentials and returns a session token.
func (a *API) Login(c *gin.Context) {
	var payload loginRequest
	if !bindJSON(c, &payload, "email and password are required") {
		return
	}
	if payload.Email == "" || payload.Password == "" {
		respondError(c, http.StatusBadRequest, "email and password are required")
		return
	}

	token, err := a.auth.Login(payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "invalid email or password")
			return
		}
		log.Printf("login: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to log in")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// GoogleSignIn turns a Google access token into a session token, creating
// the account on first sign-in.
func (a *API) GoogleSignIn(c *gin.Context) {
	var payload googleSignInRequest
	if !bindJSON(c, &payload, "accessToken is required") {
		return
	}
	if payload.AccessToken == "" {
		respondError(c, http.StatusBadRequest, "accessToken is required")
		return
	}

	token, err := a.auth.GoogleSignIn(c.Request.Context(), payload.AccessToken)
	if err != nil {
		log.Printf("google sign-in: %v", err)
		respondError(c, http.StatusUnauthorized, "google sign-in failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// SendResetPasswordCode emails a password-reset code. The response does not
// reveal whether the address has an account.
func (a *API) SendResetPasswordCode(c *gin.Context) {
	var payload resetCodeRequest
	if !bindJSON(c, &payload, "email is required") {
		return
	}
	if payload.Email == "" {
		respondError(c, http.StatusBadRequest, "email is required")
		return
	}

	if err := a.users.IssuePasswordResetCode(payload.Email); err != nil {
		log.Printf("send reset code: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to send reset code")
		return
	}

	respondSuccess(c, http.StatusOK)
}

// CheckResetPasswordCode reports whether the submitted code matches the
// pending one for the address.
func (a *API) CheckResetPasswordCode(c *gin.Context) {
	var payload checkResetCodeRequest
	if !bindJSON(c, &payload, "email and code are required") {
		return
	}
	if payload.Email == "" || payload.Code == "" {
		respondError(c, http.StatusBadRequest, "email and code are required")
		return
	}

	if err := a.users.CheckResetCode(payload.Email, payload.Code); err != nil {
		if errors.Is(err, service.ErrInvalidResetCode) {
			respondError(c, http.StatusBadRequest, "invalid code")
			return
		}
		log.Printf("check reset code: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to check reset code")
		return
	}

	respondSuccess(c, http.StatusOK)
}

// ResetPassword sets a new password after validating the emailed code.
func (a *API) ResetPassword(c *gin.Context) {
	var payload resetPasswordRequest
	if !bindJSON(c, &payload, "email, code and password are required") {
		return
	}
	if payload.Email == "" || payload.Code == "" || payload.Password == "" {
		respondError(c, http.StatusBadRequest, "email, code and password are required")
		return
	}

	if err := a.users.ResetPassword(payload.Email, payload.Code, payload.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidResetCode):
			respondError(c, http.StatusBadRequest, "incorrect code")
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "user not found")
		case errors.Is(err, service.ErrInvalidProfileInput):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			log.Printf("reset password: %v", err)
			respondError(c, http.StatusInternalServerError, "failed to reset password")
		}
		return
	}

	respondSuccess(c, http.StatusOK)
}
