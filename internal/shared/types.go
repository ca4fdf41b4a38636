package shared

import (
	"github.com/google/uuid"
)

// Caller is the authenticated principal of a request.
// Staff status is carried explicitly so services never look it up.
type Caller struct {
	UserID   uuid.UUID
	Username string
	IsStaff  bool
}

// Anonymous callers only reach public auth routes
func (c Caller) IsAnonymous() bool {
	return c.UserID == uuid.Nil
}

// Background task types
const (
	TypeDeleteBookCover       = "cover:delete"
	TypeReconcileAvailability = "availability:reconcile"
)

// Queue names
const (
	QueueDefault = "default"
	QueueLow     = "low"
)

// DeleteCoverPayload represents data for a deferred cover cleanup
type DeleteCoverPayload struct {
	BookID    string `json:"bookId"`
	ObjectKey string `json:"objectKey"`
}
