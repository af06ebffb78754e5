package app

import (
	"sort"

	"tableflip.dev/pods/pkg/episode"
)

// PodcastSummary groups a page's episodes by show.
type PodcastSummary struct {
	Podcast  string
	Episodes int
	Duration int32
}

// Summary describes a page at a glance.
type Summary struct {
	Episodes  int
	Completed int
	Duration  int32
	// Remaining is unlistened time, in seconds.
	Remaining int32
	Podcasts  []PodcastSummary
}

// Summarize totals eps. Podcasts are ordered by episode count, then name.
func Summarize(eps []episode.Episode) Summary {
	sum := Summary{Episodes: len(eps)}
	grouped := make(map[string]*PodcastSummary)
	for _, e := range eps {
		sum.Duration += e.Duration
		if e.Completed {
			sum.Completed++
		} else if left := e.Duration - e.ListenSeconds; left > 0 {
			sum.Remaining += left
		}
		ps := grouped[e.PodcastName]
		if ps == nil {
			ps = &PodcastSummary{Podcast: e.PodcastName}
			grouped[e.PodcastName] = ps
		}
		ps.Episodes++
		ps.Duration += e.Duration
	}
	for _, ps := range grouped {
		sum.Podcasts = append(sum.Podcasts, *ps)
	}
	sort.Slice(sum.Podcasts, func(i, j int) bool {
		a, b := sum.Podcasts[i], sum.Podcasts[j]
		if a.Episodes != b.Episodes {
			return a.Episodes > b.Episodes
		}
		return a.Podcast < b.Podcast
	})
	return sum
}
