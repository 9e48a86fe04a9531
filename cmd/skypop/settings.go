package main

import (
	"github.com/charmbracelet/log"

	"github.com/ayusman/skypop/internal/config"
	"github.com/ayusman/skypop/internal/store"
)

// storedSettings overlays the settings a player saved from the menus on
// top of the configured defaults.
func storedSettings(st *store.Store, def config.Settings) config.Settings {
	s := st.Settings()
	return config.Settings{
		Fullscreen:  s.GetBool(store.SettingFullscreen, def.Fullscreen),
		Music:       s.GetBool(store.SettingMusic, def.Music),
		SoundVolume: s.GetFloat(store.SettingSoundVolume, def.SoundVolume),
	}
}

// saveSettings persists settings. Failures are logged; the game keeps going.
func saveSettings(st *store.Store, s config.Settings, logger *log.Logger) {
	set := st.Settings()
	if err := set.SetBool(store.SettingFullscreen, s.Fullscreen); err != nil {
		logger.Warn("could not save setting", "key", store.SettingFullscreen, "err", err)
	}
	if err := set.SetBool(store.SettingMusic, s.Music); err != nil {
		logger.Warn("could not save setting", "key", store.SettingMusic, "err", err)
	}
	if err := set.SetFloat(store.SettingSoundVolume, s.SoundVolume); err != nil {
		logger.Warn("could not save setting", "key", store.SettingSoundVolume, "err", err)
	}
}
