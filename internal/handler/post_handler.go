package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/RazvanGorea/show-and-tell-api/internal/service"
	"github.com/gin-gonic/gin"
)

type createPostRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Slug      string `json:"slug"`
	Thumbnail string `json:"thumbnail"`
}

// GetPost returns a single post by slug.
func (a *API) GetPost(c *gin.Context) {
	post, err := a.posts.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "post not found")
			return
		}
		log.Printf("get post: %v", err)
		respondError(c, http.StatusInternalServerError, "failed to load post")
		return
	}

	c.JSON(http.StatusOK, post)
}

// CreatePost stores a new post authored by the caller.
func (a *API) CreatePost(c *gin.Context) {
	identity, ok := currentUser(c)
	if !ok {
		return
	}

	var payload createPostRequest
	if !bindJSON(c, &payload, "title, content, slug and thumbnail are required") {
		return
	}

	post, err := a.posts.Create(service.PostInput{
		Title:     payload.Title,
		Content:   payload.Content,
		Slug:      payload.Slug,
		Thumbnail: payload.Thumbnail,
		AuthorID:  identity.UserID,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPostInput):
			respondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrSlugTaken):
			respondError(c, http.StatusConflict, "slug already exists")
		default:
			log.Printf("create post: %v", err)
			respondError(c, http.StatusInternalServerError, "failed to create post")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "success", "post": post})
}
