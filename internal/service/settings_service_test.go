package service

import (
	"context"
	"testing"

	"gridwatch/backend/internal/model"
	"gridwatch/backend/internal/util"
)

func TestSettingsDefaults(t *testing.T) {
	svc := NewSettingsService(newMemSettingsStore(), newMemCredentialStore())

	got, err := svc.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.TipLevel != 1 || got.RefreshRate != 60 || got.Theme != "green" || !got.DemoMode {
		t.Fatalf("unexpected defaults %+v", got.Settings)
	}
	if got.HasAPIKeys || got.MaskedAPIKey != "" {
		t.Fatalf("unexpected credential status %+v", got)
	}
}

func TestSettingsUpdateMergesAndValidates(t *testing.T) {
	creds := newMemCredentialStore()
	svc := NewSettingsService(newMemSettingsStore(), creds)
	ctx := context.Background()
	_ = creds.Save(ctx, &model.APICredential{UserID: "u1", MaskedKey: "abcd****wxyz"})

	tip, theme, bio := 3, "blue", "grid trader"
	got, err := svc.Update(ctx, "u1", &model.UpdateSettingsRequest{TipLevel: &tip, Theme: &theme, Bio: &bio})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.TipLevel != 3 || got.Theme != "blue" || got.Bio != "grid trader" || got.RefreshRate != 60 {
		t.Fatalf("unexpected settings %+v", got.Settings)
	}
	if !got.HasAPIKeys || got.MaskedAPIKey != "abcd****wxyz" {
		t.Fatalf("unexpected credential status %+v", got)
	}

	rate := 5
	if _, err := svc.Update(ctx, "u1", &model.UpdateSettingsRequest{RefreshRate: &rate}); appCode(err) != util.ErrCodeValidation {
		t.Fatalf("got %v want validation error", err)
	}
	tip = 4
	if _, err := svc.Update(ctx, "u1", &model.UpdateSettingsRequest{TipLevel: &tip}); appCode(err) != util.ErrCodeValidation {
		t.Fatalf("got %v want validation error", err)
	}

	// rejected updates leave the stored settings alone
	if rr := svc.RefreshRate(ctx, "u1"); rr != 60 {
		t.Fatalf("got refresh rate %d want 60", rr)
	}
}
