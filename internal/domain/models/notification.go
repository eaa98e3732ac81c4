// internal/domain/models/notification.go
package models

import (
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType controls how a notification is styled.
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
	NotificationPromo   NotificationType = "promo"
)

// AllNotificationTypes returns all valid notification types.
func AllNotificationTypes() []NotificationType {
	return []NotificationType{
		NotificationInfo,
		NotificationSuccess,
		NotificationWarning,
		NotificationError,
		NotificationPromo,
	}
}

// IsValidNotificationType checks if a notification type is valid.
func IsValidNotificationType(t string) bool {
	for _, nt := range AllNotificationTypes() {
		if string(nt) == t {
			return true
		}
	}
	return false
}

// Display locations
const (
	LocationHomepage = "homepage"
	LocationBanner   = "banner"
	LocationPopup    = "popup"
)

// AllDisplayLocations returns every placement a notification can target.
func AllDisplayLocations() []string {
	return []string{LocationHomepage, LocationBanner, LocationPopup}
}

// IsValidDisplayLocation checks if a display location is valid.
func IsValidDisplayLocation(loc string) bool {
	for _, l := range AllDisplayLocations() {
		if l == loc {
			return true
		}
	}
	return false
}

// Priority bounds.
const (
	MinNotificationPriority = 0
	MaxNotificationPriority = 10
)

// ClampPriority forces p into [MinNotificationPriority, MaxNotificationPriority].
func ClampPriority(p int) int {
	if p < MinNotificationPriority {
		return MinNotificationPriority
	}
	if p > MaxNotificationPriority {
		return MaxNotificationPriority
	}
	return p
}

// Notification is an admin-authored message shown on the public site.
type Notification struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title           string             `bson:"title" json:"title"`
	Message         string             `bson:"message" json:"message"`
	Type            NotificationType   `bson:"type" json:"type"`
	DisplayLocation []string           `bson:"display_location" json:"displayLocation"`
	Active          bool               `bson:"active" json:"active"`
	StartDate       time.Time          `bson:"start_date" json:"startDate"`
	EndDate         *time.Time         `bson:"end_date,omitempty" json:"endDate,omitempty"`
	Link            string             `bson:"link,omitempty" json:"link,omitempty"`
	ButtonText      string             `bson:"button_text,omitempty" json:"buttonText,omitempty"`
	BackgroundColor string             `bson:"background_color,omitempty" json:"backgroundColor,omitempty"`
	TextColor       string             `bson:"text_color,omitempty" json:"textColor,omitempty"`
	Priority        int                `bson:"priority" json:"priority"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updatedAt"`
}

// ShowsAt reports whether the notification targets the given placement.
func (n *Notification) ShowsAt(location string) bool {
	for _, l := range n.DisplayLocation {
		if l == location {
			return true
		}
	}
	return false
}

// ActiveAt reports whether the notification is switched on and its window
// contains now. A missing end date means the window is open-ended.
func (n *Notification) ActiveAt(now time.Time) bool {
	if !n.Active {
		return false
	}
	if n.StartDate.After(now) {
		return false
	}
	if n.EndDate != nil && n.EndDate.Before(now) {
		return false
	}
	return true
}

// SelectActiveNotifications filters list down to notifications active at now
// for location, ordered by priority descending then newest first. A limit of
// zero or less returns every match.
func SelectActiveNotifications(list []Notification, location string, now time.Time, limit int) []Notification {
	out := make([]Notification, 0, len(list))
	for _, n := range list {
		if n.ShowsAt(location) && n.ActiveAt(now) {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
