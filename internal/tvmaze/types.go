package tvmaze

import (
	"strings"
	"time"
)

const premieredLayout = "2006-01-02"

// Show mirrors a show record returned by /shows and /shows/{id}.
type Show struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	URL            string   `json:"url"`
	Type           string   `json:"type"`
	Language       string   `json:"language"`
	Genres         []string `json:"genres"`
	Status         string   `json:"status"`
	Runtime        *int     `json:"runtime"`
	AverageRuntime *int     `json:"averageRuntime"`
	Premiered      *string  `json:"premiered"`
	Ended          *string  `json:"ended"`
	OfficialSite   *string  `json:"officialSite"`
	Schedule       Schedule `json:"schedule"`
	Network        *Network `json:"network"`
	Rating         Rating   `json:"rating"`
	Image          *Image   `json:"image"`
	Summary        *string  `json:"summary"`
}

// Schedule describes when new episodes air.
type Schedule struct {
	Time string   `json:"time"`
	Days []string `json:"days"`
}

// Network is the broadcaster of a show. Streaming-only shows have none.
type Network struct {
	Name string `json:"name"`
}

// Rating carries the community average; nil when nobody has rated yet.
type Rating struct {
	Average *float64 `json:"average"`
}

// Image holds poster URLs.
type Image struct {
	Medium   string `json:"medium"`
	Original string `json:"original"`
}

// SearchResult pairs a show with its relevance score from /search/shows.
type SearchResult struct {
	Score float64 `json:"score"`
	Show  Show    `json:"show"`
}

// NetworkName returns the network name or an empty string.
func (s Show) NetworkName() string {
	if s.Network == nil {
		return ""
	}
	return strings.TrimSpace(s.Network.Name)
}

// PremieredYear returns the premiere year, or 0 when unknown.
func (s Show) PremieredYear() int {
	return yearOf(s.Premiered)
}

// EndedYear returns the year the show ended, or 0 when unknown or running.
func (s Show) EndedYear() int {
	return yearOf(s.Ended)
}

// RuntimeMinutes prefers the fixed runtime and falls back to the average.
func (s Show) RuntimeMinutes() int {
	if s.Runtime != nil && *s.Runtime > 0 {
		return *s.Runtime
	}
	if s.AverageRuntime != nil && *s.AverageRuntime > 0 {
		return *s.AverageRuntime
	}
	return 0
}

// SummaryHTML returns the raw summary markup or an empty string.
func (s Show) SummaryHTML() string {
	if s.Summary == nil {
		return ""
	}
	return *s.Summary
}

// Website returns the official site or an empty string.
func (s Show) Website() string {
	if s.OfficialSite == nil {
		return ""
	}
	return strings.TrimSpace(*s.OfficialSite)
}

func yearOf(value *string) int {
	if value == nil {
		return 0
	}
	t, err := time.Parse(premieredLayout, strings.TrimSpace(*value))
	if err != nil {
		return 0
	}
	return t.Year()
}
