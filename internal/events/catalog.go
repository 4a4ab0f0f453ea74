package events

import "sort"

// Route describes where an event type is published.
type Route struct {
	Topic         string
	SchemaSubject string
}

var catalog = map[string]Route{
	TypeGoalCreated:      {Topic: "goal_events", SchemaSubject: "goal_events-value"},
	TypeActivityLogged:   {Topic: "goal_events", SchemaSubject: "goal_events-value"},
	TypeGoalCompleted:    {Topic: "goal_completed", SchemaSubject: "goal_completed-value"},
	TypeFootprintUpdated: {Topic: "footprint_events", SchemaSubject: "footprint_events-value"},
}

// Lookup returns the route for an event type.
func Lookup(eventType string) (Route, bool) {
	r, ok := catalog[eventType]
	return r, ok
}

// Topics lists every topic events are published to, sorted.
func Topics() []string {
	seen := make(map[string]struct{})
	for _, r := range catalog {
		seen[r.Topic] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
