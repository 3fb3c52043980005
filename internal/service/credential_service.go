package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"gridwatch/backend/internal/model"
	"gridwatch/backend/internal/repository"
	"gridwatch/backend/internal/util"
	"gridwatch/backend/pkg/crypto"
	"gridwatch/backend/pkg/logger"
	"gridwatch/backend/pkg/phemex"
)

// CredentialService manages the Phemex key pair a user hands us
type CredentialService struct {
	credRepo      CredentialStore
	userRepo      UserStore
	validator     CredentialValidator
	encryptionKey string
	now           func() time.Time
}

// NewCredentialService creates a new credential service
func NewCredentialService(credRepo CredentialStore, userRepo UserStore, validator CredentialValidator, encryptionKey string) *CredentialService {
	return &CredentialService{
		credRepo:      credRepo,
		userRepo:      userRepo,
		validator:     validator,
		encryptionKey: encryptionKey,
		now:           time.Now,
	}
}

// Save validates the key pair against the exchange, then stores it encrypted
func (s *CredentialService) Save(ctx context.Context, userID string, req *model.CredentialRequest) (*model.CredentialStatus, error) {
	creds := phemex.Credentials{
		APIKey:    strings.TrimSpace(req.APIKey),
		APISecret: strings.TrimSpace(req.APISecret),
	}
	if creds.IsZero() {
		return nil, util.ErrValidation("API key and secret are required")
	}

	if err := s.validator.ValidateCredentials(ctx, creds); err != nil {
		logger.GetLogger().WithField("user_id", userID).Warnf("credential validation failed: %v", err)
		return nil, util.FromExchangeError(err)
	}

	encryptedKey, err := crypto.Encrypt(creds.APIKey, s.encryptionKey)
	if err != nil {
		return nil, util.ErrInternalServer("Failed to encrypt API key")
	}
	encryptedSecret, err := crypto.Encrypt(creds.APISecret, s.encryptionKey)
	if err != nil {
		return nil, util.ErrInternalServer("Failed to encrypt API secret")
	}

	now := s.now().UTC()
	cred := &model.APICredential{
		UserID:          userID,
		EncryptedKey:    encryptedKey,
		EncryptedSecret: encryptedSecret,
		MaskedKey:       crypto.MaskAPIKey(creds.APIKey),
		IsValid:         true,
		LastValidatedAt: &now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if existing, err := s.credRepo.Get(ctx, userID); err == nil {
		cred.CreatedAt = existing.CreatedAt
	}

	if err := s.credRepo.Save(ctx, cred); err != nil {
		return nil, util.ErrInternalServer("Failed to save API credentials")
	}
	if err := s.userRepo.UpdateAPIKeyStatus(ctx, userID, true); err != nil {
		logger.GetLogger().Warnf("Failed to update API key status for user %s: %v", userID, err)
	}

	logger.GetLogger().WithField("user_id", userID).Info("exchange credentials saved")
	return cred.ToStatus(), nil
}

// Status reports whether credentials are stored, with the key masked
func (s *CredentialService) Status(ctx context.Context, userID string) (*model.CredentialStatus, error) {
	cred, err := s.credRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			return &model.CredentialStatus{}, nil
		}
		return nil, util.ErrInternalServer("Failed to load API credentials")
	}
	return cred.ToStatus(), nil
}

// Validate re-checks the stored credentials against the exchange and records the outcome
func (s *CredentialService) Validate(ctx context.Context, userID string) (*model.CredentialStatus, error) {
	cred, err := s.credRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			return nil, util.NewAppError(http.StatusNotFound, util.ErrCodeAPIKeyMissing, "No API credentials configured")
		}
		return nil, util.ErrInternalServer("Failed to load API credentials")
	}

	creds, err := s.decrypt(cred)
	if err != nil {
		return nil, util.ErrInternalServer("Failed to decrypt API credentials")
	}

	validateErr := s.validator.ValidateCredentials(ctx, *creds)
	now := s.now().UTC()
	cred.IsValid = validateErr == nil
	cred.LastValidatedAt = &now
	cred.UpdatedAt = now
	if err := s.credRepo.Save(ctx, cred); err != nil {
		return nil, util.ErrInternalServer("Failed to save API credentials")
	}

	if validateErr != nil {
		logger.GetLogger().WithField("user_id", userID).Warnf("stored credentials rejected: %v", validateErr)
		return nil, util.FromExchangeError(validateErr)
	}
	return cred.ToStatus(), nil
}

// Delete removes the stored credentials
func (s *CredentialService) Delete(ctx context.Context, userID string) error {
	if _, err := s.credRepo.Get(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			return util.NewAppError(http.StatusNotFound, util.ErrCodeAPIKeyMissing, "No API credentials configured")
		}
		return util.ErrInternalServer("Failed to load API credentials")
	}

	if err := s.credRepo.Delete(ctx, userID); err != nil {
		return util.ErrInternalServer("Failed to delete API credentials")
	}
	if err := s.userRepo.UpdateAPIKeyStatus(ctx, userID, false); err != nil {
		logger.GetLogger().Warnf("Failed to update API key status for user %s: %v", userID, err)
	}
	return nil
}

// Credentials returns the decrypted key pair, or nil when the user has none usable.
// A stored pair that no longer decrypts counts as none.
func (s *CredentialService) Credentials(ctx context.Context, userID string) (*phemex.Credentials, error) {
	cred, err := s.credRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			return nil, nil
		}
		return nil, err
	}

	creds, err := s.decrypt(cred)
	if err != nil {
		logger.GetLogger().WithField("user_id", userID).Warnf("stored credentials unreadable: %v", err)
		return nil, nil
	}
	return creds, nil
}

func (s *CredentialService) decrypt(cred *model.APICredential) (*phemex.Credentials, error) {
	key, err := crypto.Decrypt(cred.EncryptedKey, s.encryptionKey)
	if err != nil {
		return nil, err
	}
	secret, err := crypto.Decrypt(cred.EncryptedSecret, s.encryptionKey)
	if err != nil {
		return nil, err
	}
	return &phemex.Credentials{APIKey: key, APISecret: secret}, nil
}
