package model

import (
	"time"

	"gridwatch/backend/internal/util"
)

// Settings holds per-user dashboard preferences and public profile fields
type Settings struct {
	UserID         string    `json:"-"`
	TipLevel       int       `json:"tipLevel"`
	RefreshRate    int       `json:"refreshRate"` // seconds
	Theme          string    `json:"theme"`
	DemoMode       bool      `json:"demoMode"`
	DisplayName    string    `json:"displayName"`
	Bio            string    `json:"bio"`
	SocialTwitter  string    `json:"socialTwitter"`
	SocialYoutube  string    `json:"socialYoutube"`
	SocialTelegram string    `json:"socialTelegram"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// UpdateSettingsRequest is a partial update; nil fields are left untouched
type UpdateSettingsRequest struct {
	TipLevel       *int    `json:"tipLevel" binding:"omitempty,min=1,max=3"`
	RefreshRate    *int    `json:"refreshRate" binding:"omitempty,min=10"`
	Theme          *string `json:"theme" binding:"omitempty,max=32"`
	DemoMode       *bool   `json:"demoMode"`
	DisplayName    *string `json:"displayName" binding:"omitempty,max=100"`
	Bio            *string `json:"bio" binding:"omitempty,max=500"`
	SocialTwitter  *string `json:"socialTwitter" binding:"omitempty,max=200"`
	SocialYoutube  *string `json:"socialYoutube" binding:"omitempty,max=200"`
	SocialTelegram *string `json:"socialTelegram" binding:"omitempty,max=200"`
}

// Apply merges the non-nil fields of req into s
func (s *Settings) Apply(req *UpdateSettingsRequest) {
	if req.TipLevel != nil {
		s.TipLevel = *req.TipLevel
	}
	if req.RefreshRate != nil {
		s.RefreshRate = *req.RefreshRate
	}
	if req.Theme != nil {
		s.Theme = *req.Theme
	}
	if req.DemoMode != nil {
		s.DemoMode = *req.DemoMode
	}
	if req.DisplayName != nil {
		s.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		s.Bio = *req.Bio
	}
	if req.SocialTwitter != nil {
		s.SocialTwitter = *req.SocialTwitter
	}
	if req.SocialYoutube != nil {
		s.SocialYoutube = *req.SocialYoutube
	}
	if req.SocialTelegram != nil {
		s.SocialTelegram = *req.SocialTelegram
	}
}

// SettingsResponse adds credential status to the stored settings
type SettingsResponse struct {
	Settings
	HasAPIKeys   bool   `json:"hasApiKeys"`
	MaskedAPIKey string `json:"maskedApiKey"`
}

// DefaultSettings returns the settings a user starts with
func DefaultSettings(userID string) *Settings {
	return &Settings{
		UserID:      userID,
		TipLevel:    util.DefaultTipLevel,
		RefreshRate: util.DefaultRefreshRate,
		Theme:       util.DefaultTheme,
		DemoMode:    true,
	}
}
