package model

// TrailOperation is the JSONL envelope written to a session's trail file
// (spec §4.5, §6 wire formats). Field names are kept short deliberately:
// this struct is serialized once per line, per operation, for the lifetime
// of every session.
type TrailOperation struct {
	V      int                    `json:"v"`      // envelope version, currently 1
	TS     int64                  `json:"ts"`     // unix millis
	Ses    string                 `json:"ses"`    // session id
	Op     string                 `json:"op"`     // as written by internal/service: "Create" | "Update" | "Delete" | "Transition" | "Link" | "Unlink" | "Tag" | "Untag"
	Entity EntityKind             `json:"entity"`
	ID     string                 `json:"id"`
	Data   map[string]interface{} `json:"data,omitempty"`
}

// TrailEnvelopeVersion is the current value of TrailOperation.V.
const TrailEnvelopeVersion = 1
