package main

import (
	"sync"
)

// Theme values persisted in the store.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// SettingsChange describes one preference update, delivered to subscribers.
type SettingsChange struct {
	Theme     string
	AllowNSFW bool
}

// Settings holds the ambient user preferences. It is constructed once at
// startup and passed explicitly to whatever needs it; updates fan out over
// subscriber channels instead of a global lookup.
type Settings struct {
	mu        sync.Mutex
	store     *Store
	theme     string
	allowNSFW bool
	subs      []chan SettingsChange
}

// LoadSettings reads the persisted preference flags from the store.
func LoadSettings(store *Store) *Settings {
	s := &Settings{
		store: store,
		theme: ThemeLight,
	}

	if v, ok := store.Read(storeKeyTheme); ok && v == ThemeDark {
		s.theme = ThemeDark
	}
	if v, ok := store.Read(storeKeyNSFW); ok {
		s.allowNSFW = v == "true"
	}

	return s
}

// Theme returns the current theme.
func (s *Settings) Theme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// AllowNSFW reports whether adult content is included in catalog queries.
func (s *Settings) AllowNSFW() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allowNSFW
}

// SetTheme persists and broadcasts a theme change.
func (s *Settings) SetTheme(theme string) error {
	if theme != ThemeDark && theme != ThemeLight {
		return errInvalidTheme(theme)
	}

	s.mu.Lock()
	s.theme = theme
	change := SettingsChange{Theme: s.theme, AllowNSFW: s.allowNSFW}
	s.mu.Unlock()

	if err := s.store.Write(storeKeyTheme, theme); err != nil {
		return err
	}
	s.notify(change)
	return nil
}

// SetAllowNSFW persists and broadcasts the adult-content flag.
func (s *Settings) SetAllowNSFW(allow bool) error {
	s.mu.Lock()
	s.allowNSFW = allow
	change := SettingsChange{Theme: s.theme, AllowNSFW: s.allowNSFW}
	s.mu.Unlock()

	value := "false"
	if allow {
		value = "true"
	}
	if err := s.store.Write(storeKeyNSFW, value); err != nil {
		return err
	}
	s.notify(change)
	return nil
}

// Subscribe returns a channel receiving future preference changes.
// Slow subscribers drop updates rather than block the writer.
func (s *Settings) Subscribe() <-chan SettingsChange {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan SettingsChange, 1)
	s.subs = append(s.subs, ch)
	return ch
}

func (s *Settings) notify(change SettingsChange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- change:
		default:
		}
	}
}

type errInvalidTheme string

func (e errInvalidTheme) Error() string {
	return "invalid theme " + string(e) + " (want dark or light)"
}
