package domain

import "time"

// Item is a named shareable record ("torrent"). Its owner never changes.
type Item struct {
	ID          int64
	OwnerID     int64
	Title       string
	Fingerprint string
	Description string
	CreatedAt   time.Time
}

// Comment belongs to exactly one item and one author.
type Comment struct {
	ID        int64
	ItemID    int64
	AuthorID  int64
	Body      string
	CreatedAt time.Time
}

// ForumPost belongs to exactly one author; titles are unique per author.
type ForumPost struct {
	ID        int64
	AuthorID  int64
	Title     string
	Body      string
	CreatedAt time.Time
}

// ItemDetails is an item together with its comments.
type ItemDetails struct {
	Item     Item
	Comments []Comment
}
