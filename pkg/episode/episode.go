// Package episode defines the ordered items rendered by the episode lists.
package episode

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID is the server-assigned episode identifier.
type ID int32

// String renders the identifier in base 10.
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseID parses a base 10 episode identifier.
func ParseID(s string) (ID, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("episode: invalid id %q: %w", s, err)
	}
	return ID(v), nil
}

// Episode is a single podcast episode as returned by the server.
type Episode struct {
	ID            ID     `json:"episodeid"`
	PodcastID     int32  `json:"podcastid,omitempty"`
	Title         string `json:"episodetitle"`
	PodcastName   string `json:"podcastname"`
	PubDate       string `json:"episodepubdate"`
	Description   string `json:"episodedescription"`
	Artwork       string `json:"episodeartwork"`
	URL           string `json:"episodeurl"`
	Duration      int32  `json:"episodeduration"`
	ListenSeconds int32  `json:"listenduration"`
	Completed     bool   `json:"completed"`
	Saved         bool   `json:"saved"`
	Queued        bool   `json:"queued"`
	Downloaded    bool   `json:"downloaded"`
	IsYouTube     bool   `json:"is_youtube"`
	QueuePosition *int32 `json:"queueposition,omitempty"`
}

// UnmarshalJSON accepts a null listen duration, which the server sends for
// episodes that were never started.
func (e *Episode) UnmarshalJSON(data []byte) error {
	type plain Episode
	aux := struct {
		*plain
		ListenSeconds *int32 `json:"listenduration"`
	}{plain: (*plain)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	e.ListenSeconds = 0
	if aux.ListenSeconds != nil {
		e.ListenSeconds = *aux.ListenSeconds
	}
	return nil
}

// ItemID returns the stable identifier used for ordering.
func (e Episode) ItemID() ID { return e.ID }

// Key is the display key of the episode.
func (e Episode) Key() string {
	return e.ID.String()
}

// Clone returns a deep copy of the episode.
func (e Episode) Clone() Episode {
	if e.QueuePosition != nil {
		pos := *e.QueuePosition
		e.QueuePosition = &pos
	}
	return e
}

// Progress reports how much of the episode has been listened to, in [0, 1].
func (e Episode) Progress() float64 {
	if e.Completed {
		return 1
	}
	if e.Duration <= 0 || e.ListenSeconds <= 0 {
		return 0
	}
	p := float64(e.ListenSeconds) / float64(e.Duration)
	if p > 1 {
		return 1
	}
	return p
}

// IDs returns the identifier sequence of the provided episodes in order.
func IDs(list []Episode) []ID {
	ids := make([]ID, len(list))
	for i, e := range list {
		ids[i] = e.ID
	}
	return ids
}

// Index returns the position of id within list, or -1.
func Index(list []Episode, id ID) int {
	for i, e := range list {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// CloneAll copies the slice and each episode in it.
func CloneAll(list []Episode) []Episode {
	if list == nil {
		return nil
	}
	out := make([]Episode, len(list))
	for i, e := range list {
		out[i] = e.Clone()
	}
	return out
}

// FormatDuration renders seconds as h:mm:ss or m:ss.
func FormatDuration(seconds int32) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
