package outbox

import "example.com/ecosangam/internal/events"

// goal.created and goal.activity_logged share the goal_events subject, so they share
// one schema accepting either shape.
const goalEventsSchema = `{
  "title": "GoalEvent",
  "oneOf": [
    {
      "type": "object",
      "title": "GoalCreated",
      "properties": {
        "goal_id": {"type": "string"},
        "user_id": {"type": "string"},
        "type": {"type": "string"},
        "title": {"type": "string"},
        "target": {"type": "number", "minimum": 0},
        "unit": {"type": "string"},
        "days": {"type": "integer", "minimum": 1},
        "created_at": {"type": "string", "format": "date-time"}
      },
      "required": ["goal_id", "user_id", "type", "title", "target", "unit", "days", "created_at"],
      "additionalProperties": false
    },
    {
      "type": "object",
      "title": "ActivityLogged",
      "properties": {
        "goal_id": {"type": "string"},
        "user_id": {"type": "string"},
        "activity_id": {"type": "string"},
        "date": {"type": "string", "format": "date"},
        "activity": {"type": "string"},
        "impact": {"type": "number", "minimum": 0},
        "progress": {"type": "number", "minimum": 0},
        "logged_at": {"type": "string", "format": "date-time"}
      },
      "required": ["goal_id", "user_id", "activity_id", "date", "activity", "impact", "progress", "logged_at"],
      "additionalProperties": false
    }
  ]
}`

const goalCompletedSchema = `{
  "type": "object",
  "title": "GoalCompleted",
  "properties": {
    "goalId": {"type": "string"},
    "name": {"type": "string"},
    "email": {"type": "string"},
    "startDate": {"type": "string", "format": "date-time"},
    "endDate": {"type": "string", "format": "date-time"},
    "carbonSaved": {"type": "number", "minimum": 0},
    "streak": {"type": "integer", "minimum": 0},
    "goalTitle": {"type": "string"}
  },
  "required": ["name", "email", "startDate", "endDate", "carbonSaved", "streak", "goalTitle"],
  "additionalProperties": false
}`

const footprintUpdatedSchema = `{
  "type": "object",
  "title": "FootprintUpdated",
  "properties": {
    "user_id": {"type": "string"},
    "category": {"type": "string"},
    "tons": {"type": "number", "minimum": 0},
    "total_tons": {"type": "number", "minimum": 0},
    "occurred_at": {"type": "string", "format": "date-time"}
  },
  "required": ["user_id", "category", "tons", "total_tons", "occurred_at"],
  "additionalProperties": false
}`

var schemaCatalog = map[string]string{
	events.TypeGoalCreated:      goalEventsSchema,
	events.TypeActivityLogged:   goalEventsSchema,
	events.TypeGoalCompleted:    goalCompletedSchema,
	events.TypeFootprintUpdated: footprintUpdatedSchema,
}
