package enums

import "fmt"

// NotificationType maps to the notification_type enum in Postgres.
type NotificationType string

const (
	NotificationTypeSystemAnnouncement NotificationType = "system_announcement"
	NotificationTypeEnquiryAccepted    NotificationType = "enquiry_accepted"
	NotificationTypeEnquiryDeclined    NotificationType = "enquiry_declined"
	NotificationTypeSupplierReplaced   NotificationType = "supplier_replaced"
	NotificationTypePaymentReceived    NotificationType = "payment_received"
	NotificationTypeEnquiryReminder    NotificationType = "enquiry_reminder"
	NotificationTypeVerification       NotificationType = "verification"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeSystemAnnouncement,
	NotificationTypeEnquiryAccepted,
	NotificationTypeEnquiryDeclined,
	NotificationTypeSupplierReplaced,
	NotificationTypePaymentReceived,
	NotificationTypeEnquiryReminder,
	NotificationTypeVerification,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
