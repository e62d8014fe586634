package domain

// Notification is one entry from GET /api/notifications
type Notification struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Message      string `json:"message"`
	IsRead       bool   `json:"isRead"`
	CreatedAtUtc string `json:"createdAtUtc"`
}
