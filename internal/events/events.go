// Package events carries link lifecycle events over the message bus.
// Publishing is best effort: a failed publish is logged and never fails
// the request that produced it.
package events

import "time"

const (
	TopicLinkCreated  = "link.created"
	TopicLinkResolved = "link.resolved"
)

// LinkCreatedEvent is emitted when a new mapping row is inserted.
// ClientKey is the salted hash used for rate limiting, never a raw
// network address.
type LinkCreatedEvent struct {
	Code        string    `json:"code"`
	OriginalURL string    `json:"originalUrl"`
	IsCustom    bool      `json:"isCustom"`
	CreatedAt   time.Time `json:"createdAt"`
	ClientKey   string    `json:"clientKey,omitempty"`
}

// LinkResolvedEvent is emitted on every successful redirect.
type LinkResolvedEvent struct {
	Code       string    `json:"code"`
	ResolvedAt time.Time `json:"resolvedAt"`
	Referrer   string    `json:"referrer,omitempty"`
}
