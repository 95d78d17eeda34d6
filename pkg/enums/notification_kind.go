package enums

import "fmt"

// NotificationKind buckets stored notifications for display.
type NotificationKind string

const (
	NotificationKindOrder    NotificationKind = "order"
	NotificationKindDelivery NotificationKind = "delivery"
	NotificationKindPromo    NotificationKind = "promo"
	NotificationKindAlert    NotificationKind = "alert"
	NotificationKindInfo     NotificationKind = "info"
)

var validNotificationKinds = []NotificationKind{
	NotificationKindOrder,
	NotificationKindDelivery,
	NotificationKindPromo,
	NotificationKindAlert,
	NotificationKindInfo,
}

// String implements fmt.Stringer.
func (n NotificationKind) String() string {
	return string(n)
}

// IsValid reports whether the value is a known NotificationKind.
func (n NotificationKind) IsValid() bool {
	for _, candidate := range validNotificationKinds {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationKind converts raw input into a NotificationKind.
func ParseNotificationKind(value string) (NotificationKind, error) {
	for _, candidate := range validNotificationKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification kind %q", value)
}
