package shortener

import "time"

// Code is a short link identifier.
type Code string

// Link is a stored mapping from a short code to an original URL.
// Links are immutable once created; there is no update or delete path.
type Link struct {
	Code        Code
	OriginalURL string
	IsCustom    bool
	CreatedAt   time.Time
}
