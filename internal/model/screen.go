package model

// Screen identifies the top-level view. Purely an in-memory current-view
// pointer; never persisted.
type Screen string

const (
	ScreenHome       Screen = "home"
	ScreenScanner    Screen = "scanner"
	ScreenSearch     Screen = "search"
	ScreenConsultant Screen = "consultant"
	ScreenMore       Screen = "more"
)

// Valid reports whether s names a known top-level screen.
func (s Screen) Valid() bool {
	switch s {
	case ScreenHome, ScreenScanner, ScreenSearch, ScreenConsultant, ScreenMore:
		return true
	}
	return false
}

// MoreView identifies a sub-view inside the More subtree. The subtree is a
// secondary state machine that resets to the menu whenever More is entered.
type MoreView string

const (
	MoreMenu       MoreView = "menu"
	MoreProfile    MoreView = "profile"
	MoreSaved      MoreView = "saved"
	MoreHistory    MoreView = "history"
	MoreSettings   MoreView = "settings"
	MoreDisclaimer MoreView = "disclaimer"
	MoreAbout      MoreView = "about"
	MoreAboutUs    MoreView = "about-us"
	MoreContact    MoreView = "contact"
	MorePrivacy    MoreView = "privacy"
	MoreTerms      MoreView = "terms"
)

// Valid reports whether v names a known More sub-view.
func (v MoreView) Valid() bool {
	switch v {
	case MoreMenu, MoreProfile, MoreSaved, MoreHistory, MoreSettings,
		MoreDisclaimer, MoreAbout, MoreAboutUs, MoreContact, MorePrivacy, MoreTerms:
		return true
	}
	return false
}
