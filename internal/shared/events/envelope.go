package events

import (
	"encoding/json"
	"time"
)

// Envelope is the shared event shape published by AirVault modules.
// Outbox rows persist the marshalled envelope; the relay republishes it as-is.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	SourceService string          `json:"source_service"`
	OccurredAt    time.Time       `json:"occurred_at"`
	PartitionKey  string          `json:"partition_key"`
	SchemaVersion int             `json:"schema_version"`
	Payload       json.RawMessage `json:"payload"`
}
