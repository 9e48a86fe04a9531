package store

import (
	"errors"
	"testing"
)

func TestSettingsRepository_GetSet(t *testing.T) {
	repo := newTestStore(t).Settings()

	if _, err := repo.Get(SettingPlayer); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() on empty store error = %v, want ErrNotFound", err)
	}

	if err := repo.Set(SettingPlayer, "ana"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := repo.Set(SettingPlayer, "ben"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}

	got, err := repo.Get(SettingPlayer)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "ben" {
		t.Errorf("Get() = %q, want ben", got)
	}
}

func TestSettingsRepository_Typed(t *testing.T) {
	repo := newTestStore(t).Settings()

	if got := repo.GetBool(SettingMusic, true); !got {
		t.Error("GetBool() default not returned for a missing key")
	}
	if got := repo.GetFloat(SettingSoundVolume, 0.5); got != 0.5 {
		t.Errorf("GetFloat() = %v, want default 0.5", got)
	}

	if err := repo.SetBool(SettingMusic, false); err != nil {
		t.Fatal(err)
	}
	if err := repo.SetFloat(SettingSoundVolume, 0.25); err != nil {
		t.Fatal(err)
	}
	if repo.GetBool(SettingMusic, true) {
		t.Error("GetBool() = true after SetBool(false)")
	}
	if got := repo.GetFloat(SettingSoundVolume, 1); got != 0.25 {
		t.Errorf("GetFloat() = %v, want 0.25", got)
	}

	repo.Set(SettingFullscreen, "maybe")
	if !repo.GetBool(SettingFullscreen, true) {
		t.Error("unparsable bool should fall back to the default")
	}
}
