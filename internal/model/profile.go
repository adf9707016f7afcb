package model

// UserProfile is the user-entered preference record. It lives for the
// process lifetime and is edited through a draft/commit pattern: a scratch
// copy is mutated, then either committed back whole or discarded.
type UserProfile struct {
	Name        string `json:"name"`
	Goal        string `json:"goal"`
	Age         string `json:"age"`
	Restriction string `json:"restriction"`
}

// DefaultProfile returns the seed profile shown before the user edits.
func DefaultProfile() UserProfile {
	return UserProfile{
		Name:        "John Doe",
		Goal:        "Muscle Gain & Energy",
		Age:         "28",
		Restriction: "Gluten Free",
	}
}

// Settings are process-lifetime preference toggles with no persistence.
type Settings struct {
	Notifications bool `json:"notifications"`
	DarkMode      bool `json:"dark_mode"`
}

// DefaultSettings returns the initial toggle state.
func DefaultSettings() Settings {
	return Settings{Notifications: true, DarkMode: false}
}
