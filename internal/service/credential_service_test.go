package service

import (
	"context"
	"testing"

	"gridwatch/backend/internal/model"
	"gridwatch/backend/internal/util"
	"gridwatch/backend/pkg/phemex"
)

func newTestCredentials(validator *fakeValidator) (*CredentialService, *memCredentialStore, *memUserStore) {
	creds := newMemCredentialStore()
	users := newMemUserStore()
	_ = users.Create(context.Background(), &model.User{ID: "u1", Email: "a@example.com", Status: model.StatusActive})
	return NewCredentialService(creds, users, validator, testEncryptionKey), creds, users
}

func TestSaveCredentialsEncryptsAndMasks(t *testing.T) {
	validator := &fakeValidator{}
	svc, store, users := newTestCredentials(validator)
	ctx := context.Background()

	status, err := svc.Save(ctx, "u1", &model.CredentialRequest{APIKey: "  abcd1234efgh5678 ", APISecret: " s3cret "})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !status.HasAPIKeys || !status.IsValid {
		t.Fatalf("unexpected status %+v", status)
	}
	if status.MaskedAPIKey != "abcd****5678" {
		t.Fatalf("got %q want %q", status.MaskedAPIKey, "abcd****5678")
	}

	if len(validator.calls) != 1 || validator.calls[0] != (phemex.Credentials{APIKey: "abcd1234efgh5678", APISecret: "s3cret"}) {
		t.Fatalf("validator saw %+v", validator.calls)
	}

	stored, _ := store.Get(ctx, "u1")
	if stored.EncryptedKey == "abcd1234efgh5678" || stored.EncryptedSecret == "s3cret" {
		t.Fatal("credentials stored in clear")
	}
	user, _ := users.GetByID(ctx, "u1")
	if !user.HasAPIKey {
		t.Fatal("expected user to be flagged as having keys")
	}

	got, err := svc.Credentials(ctx, "u1")
	if err != nil || got == nil {
		t.Fatalf("credentials: %v %v", got, err)
	}
	if got.APIKey != "abcd1234efgh5678" || got.APISecret != "s3cret" {
		t.Fatalf("got %+v", got)
	}
}

func TestSaveCredentialsRejectedByExchange(t *testing.T) {
	validator := &fakeValidator{err: &phemex.AuthError{Path: phemex.PathSpotWallets}}
	svc, store, _ := newTestCredentials(validator)
	ctx := context.Background()

	_, err := svc.Save(ctx, "u1", &model.CredentialRequest{APIKey: "key", APISecret: "secret"})
	if got := appCode(err); got != util.ErrCodeAPIKeyInvalid {
		t.Fatalf("got %q want %q", got, util.ErrCodeAPIKeyInvalid)
	}
	if _, err := store.Get(ctx, "u1"); err == nil {
		t.Fatal("rejected credentials must not be stored")
	}

	_, err = svc.Save(ctx, "u1", &model.CredentialRequest{APIKey: "  ", APISecret: "secret"})
	if got := appCode(err); got != util.ErrCodeValidation {
		t.Fatalf("got %q want %q", got, util.ErrCodeValidation)
	}
}

func TestValidateStoredCredentialsRecordsOutcome(t *testing.T) {
	validator := &fakeValidator{}
	svc, store, _ := newTestCredentials(validator)
	ctx := context.Background()

	if _, err := svc.Validate(ctx, "u1"); appCode(err) != util.ErrCodeAPIKeyMissing {
		t.Fatalf("got %v want missing keys", err)
	}

	if _, err := svc.Save(ctx, "u1", &model.CredentialRequest{APIKey: "key", APISecret: "secret"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	validator.err = &phemex.APIError{Code: 10500, Message: "bad key"}
	if _, err := svc.Validate(ctx, "u1"); appCode(err) != util.ErrCodeExchangeAPI {
		t.Fatalf("got %v want exchange error", err)
	}
	stored, _ := store.Get(ctx, "u1")
	if stored.IsValid {
		t.Fatal("expected credentials to be marked invalid")
	}

	validator.err = nil
	status, err := svc.Validate(ctx, "u1")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !status.IsValid || status.LastValidatedAt == nil {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestDeleteCredentials(t *testing.T) {
	svc, _, users := newTestCredentials(&fakeValidator{})
	ctx := context.Background()

	if err := svc.Delete(ctx, "u1"); appCode(err) != util.ErrCodeAPIKeyMissing {
		t.Fatalf("got %v want missing keys", err)
	}

	if _, err := svc.Save(ctx, "u1", &model.CredentialRequest{APIKey: "key", APISecret: "secret"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := svc.Delete(ctx, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	status, err := svc.Status(ctx, "u1")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.HasAPIKeys {
		t.Fatal("expected no keys after delete")
	}
	user, _ := users.GetByID(ctx, "u1")
	if user.HasAPIKey {
		t.Fatal("expected user flag cleared")
	}
}

func TestCredentialsUnreadableCountsAsNone(t *testing.T) {
	svc, store, _ := newTestCredentials(&fakeValidator{})
	ctx := context.Background()
	_ = store.Save(ctx, &model.APICredential{UserID: "u1", EncryptedKey: "not-base64!", EncryptedSecret: "x"})

	got, err := svc.Credentials(ctx, "u1")
	if err != nil {
		t.Fatalf("credentials: %v", err)
	}
	if got != nil {
		t.Fatalf("got %+v want nil", got)
	}

	got, err = svc.Credentials(ctx, "nobody")
	if err != nil || got != nil {
		t.Fatalf("got %+v, %v want nil, nil", got, err)
	}
}
