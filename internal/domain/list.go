package domain

import "time"

// ListItem is one entry of a journey: a book at a position with an optional
// note on why it is included.
type ListItem struct {
	BookID   string `json:"book_id"`
	Position int    `json:"position"` // 0..3, contiguous, 0 = read first
	Note     string `json:"note,omitempty"`
}

// List is a published journey. OwnerID is empty for anonymous lists, which
// carry an ExpiresAt and are purged (and hidden at read time) once past it.
// Owned lists never expire.
type List struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	OwnerID     string     `json:"owner_id,omitempty"`
	IsPublic    bool       `json:"is_public"`
	IsAnonymous bool       `json:"is_anonymous"`
	LikeCount   int64      `json:"like_count"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Items       []ListItem `json:"items"`

	// SharePath is the public URL path of the list. Derived, not stored.
	SharePath string `json:"share_path,omitempty"`
}

// ResolveSharePath fills in SharePath. Owned lists live under the owner's
// profile; anonymous lists under the generic share path.
func (l *List) ResolveSharePath(ownerHandle string) {
	if l.OwnerID != "" && ownerHandle != "" {
		l.SharePath = "/profile/" + ownerHandle + "/" + l.Slug
		return
	}
	l.SharePath = "/share/" + l.Slug
}

// Expired reports whether an anonymous list has passed its retention window.
// Owned lists never expire.
func (l *List) Expired(now time.Time) bool {
	return l.IsAnonymous && l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}

// BookIDs returns the ordered book IDs of the list's items.
func (l *List) BookIDs() []string {
	ids := make([]string, len(l.Items))
	for i, item := range l.Items {
		ids[i] = item.BookID
	}
	return ids
}

// Contiguous reports whether item positions are exactly 0..len-1 in order.
// Persisted lists always satisfy this.
func (l *List) Contiguous() bool {
	for i, item := range l.Items {
		if item.Position != i {
			return false
		}
	}
	return true
}
