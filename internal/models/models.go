// package models defines the transient projections of Spotify API responses.
//
// Values live only for the duration of a single menu action; nothing here is
// cached or persisted.
package models

// Track represents a music track.
type Track struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	Duration int    `json:"duration"` // Duration in seconds
	URI      string `json:"uri"`
}

// Playlist represents a playlist owned by or followed by the user.
type Playlist struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Owner      string `json:"owner"`
	TrackCount int    `json:"track_count"`
	Public     bool   `json:"public"`
	URI        string `json:"uri"`
}

// Device represents a registered playback endpoint the service can direct audio to.
type Device struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Volume int    `json:"volume"`
	Active bool   `json:"active"`
}

// NowPlaying describes the current playback state of the active device.
type NowPlaying struct {
	Track      Track  `json:"track"`
	Playing    bool   `json:"playing"`
	ProgressMS int    `json:"progress_ms"`
	DurationMS int    `json:"duration_ms"`
	Shuffle    bool   `json:"shuffle"`
	Repeat     string `json:"repeat"` // "off", "track" or "context"
	Device     Device `json:"device"`
}
