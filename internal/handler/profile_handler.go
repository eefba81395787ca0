package handler

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/RazvanGorea/show-and-tell-api/internal/service"
	"github.com/gin-gonic/gin"
)

// avatars are small; anything bigger than this is rejected before decoding.
const maxAvatarBytes = 5 << 20

// GetProfile returns the caller's own profile fields.
func (a *API) GetProfile(c *gin.Context) {
	identity, ok := currentUser(c)
	if !ok {
		return
	}

	profile, err := a.users.Profile(identity.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "user not found")
			return
		}
		log.Printf("get profile: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to load profile")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetPublicProfile returns another user's public profile with their posts.
func (a *API) GetPublicProfile(c *gin.Context) {
	userID, err := parseUintParam(c, "uid")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid user id")
		return
	}

	profile, err := a.users.PublicProfile(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "user not found")
			return
		}
		log.Printf("get public profile: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to load profile")
		return
	}

	c.JSON(http.StatusOK, profile)
}

// SendVerificationCode issues a profile-update code and emails it to the
// caller's registered address.
func (a *API) SendVerificationCode(c *gin.Context) {
	identity, ok := currentUser(c)
	if !ok {
		return
	}

	if err := a.users.IssueProfileCode(identity.UserID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, http.StatusNotFound, "user not found")
			return
		}
		log.Printf("send verification code: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to send verification code")
		return
	}

	respondSuccess(c, http.StatusOK)
}

// UpdateProfile applies a multipart profile update guarded by an emailed
// verification code. Optional parts (email, password, avatar file) that are
// absent leave the current values alone.
func (a *API) UpdateProfile(c *gin.Context) {
	identity, ok := currentUser(c)
	if !ok {
		return
	}

	update := service.ProfileUpdate{
		Code:     c.PostForm("code"),
		Name:     c.PostForm("name"),
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
	}
	if update.Code == "" || update.Name == "" {
		respondError(c, http.StatusBadRequest, "code and name are required")
		return
	}

	if file, err := c.FormFile("avatar"); err == nil {
		if file.Size > maxAvatarBytes {
			respondError(c, http.StatusBadRequest, "avatar image is too large")
			return
		}
		src, err := file.Open()
		if err != nil {
			respondError(c, http.StatusBadRequest, "could not read avatar image")
			return
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			respondError(c, http.StatusBadRequest, "could not read avatar image")
			return
		}
		update.Avatar = data
		update.AvatarName = file.Filename
	}

	if err := a.users.UpdateProfile(c.Request.Context(), identity.UserID, update); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidResetCode):
			respondError(c, http.StatusBadRequest, "invalid verification code")
		case errors.Is(err, service.ErrInvalidProfileInput):
			respondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrEmailTaken):
			respondError(c, http.StatusConflict, "email already registered")
		case errors.Is(err, service.ErrUserNotFound):
			respondError(c, http.StatusNotFound, "user not found")
		default:
			log.Printf("update profile: %v", err)
			respondError(c, http.StatusInternalServerError, "failed to update profile")
		}
		return
	}

	respondSuccess(c, http.StatusOK)
}
