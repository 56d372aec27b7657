package dto

import (
	"io"

	"jigswap.app/jigswap/internal/entity"
	statDto "jigswap.app/jigswap/internal/modules/stat/dto"
)

// AvatarFile is an uploaded avatar image.
type AvatarFile struct {
	Reader   io.Reader
	FileName string
}

type UpdateProfileInput struct {
	Username      *string `json:"username"`
	Password      *string `json:"password"`
	Bio           *string `json:"bio"`
	Location      *string `json:"location"`
	PreferredLang *string `json:"preferred_lang" binding:"omitempty,oneof=en nl"`
}

type ProfileResponse struct {
	User  *entity.User       `json:"user"`
	Stats *statDto.UserStats `json:"stats,omitempty"`
}
