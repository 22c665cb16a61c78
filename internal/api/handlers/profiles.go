package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/safetweet/safetweet/internal/media"
	"github.com/safetweet/safetweet/internal/social"
)

type imageRequest struct {
	Image string `json:"image"`
}

func (h *Handler) GetProfileHandler(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	profile, err := h.Social.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if userID != CurrentUserID(c) {
		profile.Email = ""
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) UpdateProfileHandler(c *gin.Context) {
	var req social.ProfileUpdate
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.Social.UpdateProfile(c.Request.Context(), CurrentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) SetPhotoHandler(c *gin.Context) {
	var req imageRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.Social.SetProfilePhoto(c.Request.Context(), CurrentUserID(c), req.Image)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) DeletePhotoHandler(c *gin.Context) {
	profile, err := h.Social.ClearProfilePhoto(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) SetBannerHandler(c *gin.Context) {
	var req imageRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.Social.SetProfileBanner(c.Request.Context(), CurrentUserID(c), req.Image)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *Handler) DeleteBannerHandler(c *gin.Context) {
	profile, err := h.Social.ClearProfileBanner(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// AvatarHandler serves the stored profile photo as an image, for clients
// that prefer a URL over an inline data URI.
func (h *Handler) AvatarHandler(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	profile, err := h.Social.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if profile.Photo == "" {
		c.Status(http.StatusNotFound)
		return
	}

	img, err := media.ParseDataURI(profile.Photo)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, img.MIME, img.Data)
}

func (h *Handler) SearchProfilesHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	results, err := h.Social.SearchProfiles(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
