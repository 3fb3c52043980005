package model

import "time"

// APICredential is a user's Phemex key pair, encrypted at rest
type APICredential struct {
	UserID          string     `json:"userId"`
	EncryptedKey    string     `json:"encryptedKey"`
	EncryptedSecret string     `json:"encryptedSecret"`
	MaskedKey       string     `json:"maskedKey"`
	IsValid         bool       `json:"isValid"`
	LastValidatedAt *time.Time `json:"lastValidatedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// CredentialRequest represents a credential save request
type CredentialRequest struct {
	APIKey    string `json:"apiKey" binding:"required"`
	APISecret string `json:"apiSecret" binding:"required"`
}

// CredentialStatus is what the API reports about stored credentials, never the secret itself
type CredentialStatus struct {
	HasAPIKeys      bool       `json:"hasApiKeys"`
	MaskedAPIKey    string     `json:"maskedApiKey"`
	IsValid         bool       `json:"isValid"`
	LastValidatedAt *time.Time `json:"lastValidatedAt,omitempty"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

// ToStatus converts APICredential to CredentialStatus
func (c *APICredential) ToStatus() *CredentialStatus {
	if c == nil {
		return &CredentialStatus{}
	}
	updated := c.UpdatedAt
	return &CredentialStatus{
		HasAPIKeys:      true,
		MaskedAPIKey:    c.MaskedKey,
		IsValid:         c.IsValid,
		LastValidatedAt: c.LastValidatedAt,
		UpdatedAt:       &updated,
	}
}
