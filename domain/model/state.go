package model

import "strings"

type TabID string

const (
	TabDashboard TabID = "dashboard"
	TabUsers     TabID = "users"
	TabLogins    TabID = "logins"
)

// PanelState is the single mutable application state. It is owned by the
// state service; nothing else mutates it.
type PanelState struct {
	CurrentUser *Session
	Users       []User
	Logins      []LoginEntry
	ActiveTab   TabID
}

// StateSnapshot is an immutable copy of the state handed to renderers.
// The slices are copies so a render pass never observes a mid-replace state.
type StateSnapshot struct {
	CurrentUser *Session
	Users       []User
	Logins      []LoginEntry
	ActiveTab   TabID
	Stats       Stats
	Version     uint64
}

// Stats are the dashboard counters. They are a pure function of the user
// and login sequences and are recomputed wholesale on every replacement,
// never patched incrementally.
type Stats struct {
	UserCount       int `json:"userCount"`
	ActiveUserCount int `json:"activeUserCount"`
	LoginsToday     int `json:"loginsToday"`
}

// ComputeStats derives the dashboard counters from the current sequences.
// today is the ISO calendar date ("2006-01-02") computed once per pass;
// logins are bucketed by string prefix against it.
func ComputeStats(users []User, logins []LoginEntry, today string) Stats {
	stats := Stats{UserCount: len(users)}

	for _, u := range users {
		if u.Active {
			stats.ActiveUserCount++
		}
	}

	for _, l := range logins {
		if l.CreatedAt != "" && strings.HasPrefix(l.CreatedAt, today) {
			stats.LoginsToday++
		}
	}

	return stats
}
