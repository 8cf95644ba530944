// Package history renders the grouped session list shown in the sidebar
// and issues the delete and clear actions against the backend.
package history

type EntryType string

const (
	EntryUser EntryType = "User"
	EntryBot  EntryType = "Bot"
)

// Entry is one past exchange as stored by the backend. Message doubles as
// the delete key: entries with the same text cannot be told apart.
type Entry struct {
	Type    EntryType `json:"type"`
	Message string    `json:"message"`
}

type Bucket string

const (
	Today     Bucket = "Today"
	Yesterday Bucket = "Yesterday"
	Older     Bucket = "Older"
)

// Buckets is the order sections are shown in, whatever the payload order.
var Buckets = []Bucket{Today, Yesterday, Older}

// Payload is the grouped history as returned by the backend. A nil Payload
// means the backend sent no history at all.
type Payload map[Bucket][]Entry
