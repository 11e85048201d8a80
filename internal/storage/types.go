package storage

import "time"

// DefaultCronExpression is used whenever the settings row is missing or
// carries no expression.
const DefaultCronExpression = "*/5 * * * *"

// Page is one bookmarked destination in the rotation.
type Page struct {
	ID         int64
	URL        string
	LastOpened *time.Time // nil: never opened
	CreatedAt  time.Time
}

// Opened reports whether the page has been visited at least once.
func (p Page) Opened() bool {
	return p.LastOpened != nil
}

// PageUpdate carries the mutable fields of a page. Only LastOpened can be
// changed after insertion.
type PageUpdate struct {
	LastOpened *time.Time
}

// Settings is the singleton settings record.
type Settings struct {
	CronExpression string
	DarkMode       bool
	UpdatedAt      time.Time
}

// SettingsPatch holds independently updatable settings fields. Nil fields
// are left untouched.
type SettingsPatch struct {
	CronExpression *string
	DarkMode       *bool
}

// DefaultSettings returns the values used when no settings row exists.
func DefaultSettings() Settings {
	return Settings{CronExpression: DefaultCronExpression}
}

// Stats holds aggregate statistics about the database.
type Stats struct {
	TotalPages        int64
	NeverOpened       int64
	LastOpened        time.Time
	SettingsRows      int64
	SchemaVersion     int
	DatabaseSizeBytes int64
}
