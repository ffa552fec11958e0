package queue

import (
	"fmt"
	"strings"
)

// WineMovedQueue is the durable queue placement events are published to.
const WineMovedQueue = "wine.moved"

// Event kinds carried in WineMovedEvent.Kind.
const (
	KindMove   = "move"
	KindCreate = "create"
)

// MovedWine is one occupancy change.  CellarID, Row and Column are nil
// when the wine ended up outside; Row and Column are nil for baskets.
type MovedWine struct {
	WineID   string  `json:"id"`
	CellarID *string `json:"cellar_id"`
	Row      *int    `json:"row"`
	Column   *int    `json:"column"`
}

// WineMovedEvent is published after a placement transaction commits.
// It is self-contained so consumers never need to query the database.
type WineMovedEvent struct {
	Kind    string      `json:"kind"`
	UserID  string      `json:"user_id"`
	WineID  string      `json:"wine_id"`
	Changes []MovedWine `json:"changes"`
	MovedAt string      `json:"moved_at"`
}

// Line renders the event as one human-friendly log line.
func (ev WineMovedEvent) Line() string {
	parts := make([]string, 0, len(ev.Changes))
	for _, c := range ev.Changes {
		parts = append(parts, c.WineID+"->"+c.location())
	}
	return fmt.Sprintf("[%s] Wine %s | kind=%s | user_id=%s | wine_id=%s | changes=[%s]\n",
		ev.MovedAt, verb(ev.Kind), ev.Kind, ev.UserID, ev.WineID, strings.Join(parts, ","))
}

func (c MovedWine) location() string {
	switch {
	case c.CellarID == nil:
		return "outside"
	case c.Row == nil || c.Column == nil:
		return *c.CellarID + "/basket"
	}
	return fmt.Sprintf("%s/%d-%d", *c.CellarID, *c.Row, *c.Column)
}

func verb(kind string) string {
	if kind == KindCreate {
		return "placed"
	}
	return "moved"
}
