package http

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"jigswap.app/jigswap/internal/modules/profile/dto"
	profile "jigswap.app/jigswap/internal/modules/profile/service"
	"jigswap.app/jigswap/pkg/response"
	"jigswap.app/jigswap/pkg/validator"
)

type ProfileHandler struct {
	service profile.ProfileService
}

func NewProfileHandler(service profile.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) GetByUsername(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username is required"})
		return
	}

	resp, err := h.service.GetByUsername(c.Request.Context(), username)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ProfileHandler) GetCurrent(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp, err := h.service.GetCurrent(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Update accepts either JSON or multipart form data (the latter when an
// avatar file is included).
func (h *ProfileHandler) Update(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var input dto.UpdateProfileInput
	var avatar *dto.AvatarFile

	contentType := c.ContentType()
	if contentType == "multipart/form-data" {
		if payload := c.PostForm("data"); payload != "" {
			if err := json.Unmarshal([]byte(payload), &input); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile payload"})
				return
			}
		}

		if file, err := c.FormFile("avatar"); err == nil {
			opened, err := file.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "could not read avatar file"})
				return
			}
			defer opened.Close()
			avatar = &dto.AvatarFile{Reader: opened, FileName: file.Filename}
		}
	} else {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
			return
		}
	}

	resp, err := h.service.Update(c.Request.Context(), userID, input, avatar)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
