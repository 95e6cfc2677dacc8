package enums

import "fmt"

// EnquiryPaymentStatus tracks how much of an accepted enquiry has been paid.
// The processor reports both "fully_paid" and the legacy "paid" value for a
// settled balance; both are kept so historic rows keep parsing.
type EnquiryPaymentStatus string

const (
	PaymentStatusUnpaid      EnquiryPaymentStatus = "unpaid"
	PaymentStatusPartialPaid EnquiryPaymentStatus = "partial_paid"
	PaymentStatusFullyPaid   EnquiryPaymentStatus = "fully_paid"
	PaymentStatusPaid        EnquiryPaymentStatus = "paid"
)

var validEnquiryPaymentStatuses = []EnquiryPaymentStatus{
	PaymentStatusUnpaid,
	PaymentStatusPartialPaid,
	PaymentStatusFullyPaid,
	PaymentStatusPaid,
}

// String implements fmt.Stringer.
func (p EnquiryPaymentStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known EnquiryPaymentStatus.
func (p EnquiryPaymentStatus) IsValid() bool {
	for _, candidate := range validEnquiryPaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsSettled reports whether the enquiry balance is fully paid.
func (p EnquiryPaymentStatus) IsSettled() bool {
	return p == PaymentStatusFullyPaid || p == PaymentStatusPaid
}

// ParseEnquiryPaymentStatus converts raw input into an EnquiryPaymentStatus.
func ParseEnquiryPaymentStatus(value string) (EnquiryPaymentStatus, error) {
	for _, candidate := range validEnquiryPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid enquiry payment status %q", value)
}
