package domain

import "time"

type OwnerKind string

const (
	OwnerAnonymous OwnerKind = "anonymous"
	OwnerSubject   OwnerKind = "subject"
)

// Owner is whoever a cart row belongs to: a guest or a subject.
type Owner struct {
	Kind OwnerKind
	ID   string
}

func AnonymousOwner(id AnonymousID) Owner { return Owner{Kind: OwnerAnonymous, ID: string(id)} }
func SubjectOwner(s Subject) Owner        { return Owner{Kind: OwnerSubject, ID: string(s)} }

func (o Owner) IsZero() bool { return o.ID == "" }

// CartItem is one product line in a cart. (Owner, ProductID) is unique.
type CartItem struct {
	ID        string
	Owner     Owner
	ProductID string
	Quantity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MigrationResult reports what a guest-to-subject migration did. Rows the
// subject did not hold yet were Moved; rows that collided with one of the
// subject's were Merged into it.
type MigrationResult struct {
	AnonymousID AnonymousID
	Subject     Subject
	Moved       int
	Merged      int
}

// MovedCount is the number of guest rows that changed hands. It is zero for
// a repeated migration.
func (m MigrationResult) MovedCount() int { return m.Moved + m.Merged }
