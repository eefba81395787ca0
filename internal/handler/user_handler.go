package handler

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/RazvanGorea/show-and-tell-api/internal/service"
	"github.com/gin-gonic/gin"
)

type addHistoryRequest struct {
	PostID   uint `json:"postId"`
	AuthorID uint `json:"authorId"`
}

// deleteHistoryRequest distinguishes "no items given" (clear everything)
// from an explicit list, so Items is a pointer.
type deleteHistoryRequest struct {
	Items *[]string `json:"items"`
}

type savePostRequest struct {
	PostID uint `json:"postId"`
}

// GetHistory returns the caller's enriched browsing history.
func (a *API) GetHistory(c *gin.Context) {
	identity, ok := currentUser(c)
	if !ok {
		return
	}

	views, err := a.history.List(identity.UserID)
	if err != nil {
		log.Printf("get history: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to load history")
		return
	}

	c.JSON(http.StatusOK, views)
}

// AddHistory records a post view for the caller.
func (a *API) AddHistory(c *gin.Context) {
	identity, ok := currentUser(c)
	if !ok {
		return
	}

	var payload addHistoryRequest
	if !bindJSON(c, &payload, "postId and authorId are required") {
		return
	}
	if payload.PostID == 0 || payload.AuthorID == 0 {
		respondError(c, http.StatusBadRequest, "postId and authorId are required")
		return
	}

	if err := a.history.Append(identity.UserID, payload.PostID, payload.AuthorID); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "post not found")
			return
		}
		log.Printf("add history: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to record history")
		return
	}

	respondSuccess(c, http.StatusCreated)
}

// DeleteHistory removes history entries. Without an items list the entire
// history is cleared; with one, only the listed entry IDs are removed and
// unknown IDs are ignored. Either way the committed, enriched view comes
// back.
func (a *API) DeleteHistory(c *gin.Context) {
	identity, ok := currentUser(c)
	if !ok {
		return
	}

	var payload deleteHistoryRequest
	if err := c.ShouldBindJSON(&payload); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.Items == nil {
		views, err := a.history.Clear(identity.UserID)
		if err != nil {
			log.Printf("clear history: %v", err)
			respondError(c, http.StatusInternalServerError, "failed to clear history")
			return
		}
		c.JSON(http.StatusOK, views)
		return
	}

	views, missed, err := a.history.DeleteItems(identity.UserID, *payload.Items)
	if err != nil {
		log.Printf("delete history items: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to delete history items")
		return
	}
	if missed > 0 {
		// Stale IDs from the client are tolerated but worth noticing.
		log.Printf("delete history items: user %d sent %d unknown ids", identity.UserID, missed)
	}

	c.JSON(http.StatusOK, views)
}

// GetSaves returns the caller's enriched saved posts.
func (a *API) GetSaves(c *gin.Context) {
	identity, ok := currentUser(c)
	if !ok {
		return
	}

	views, err := a.saves.List(identity.UserID)
	if err != nil {
		log.Printf("get saves: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to load saves")
		return
	}

	c.JSON(http.StatusOK, views)
}

// SavePost bookmarks a post for the caller. Saving twice is a no-op.
func (a *API) SavePost(c *gin.Context) {
	identity, ok := currentUser(c)
	if !ok {
		return
	}

	var payload savePostRequest
	if !bindJSON(c, &payload, "postId is required") {
		return
	}
	if payload.PostID == 0 {
		respondError(c, http.StatusBadRequest, "postId is required")
		return
	}

	if err := a.saves.Save(identity.UserID, payload.PostID); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "post not found")
			return
		}
		log.Printf("save post: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to save post")
		return
	}

	respondSuccess(c, http.StatusCreated)
}

// UnsavePost removes a bookmark. Unsaving a post that was never saved is an
// error.
func (a *API) UnsavePost(c *gin.Context) {
	identity, ok := currentUser(c)
	if !ok {
		return
	}

	var payload savePostRequest
	if !bindJSON(c, &payload, "postId is required") {
		return
	}
	if payload.PostID == 0 {
		respondError(c, http.StatusBadRequest, "postId is required")
		return
	}

	if err := a.saves.Unsave(identity.UserID, payload.PostID); err != nil {
		if errors.Is(err, service.ErrSaveNotFound) {
			respondError(c, http.StatusNotFound, "post is not saved")
			return
		}
		log.Printf("unsave post: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to unsave post")
		return
	}

	respondSuccess(c, http.StatusCreated)
}
