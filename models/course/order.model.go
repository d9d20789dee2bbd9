package course

import "gorm.io/gorm"

// Order statuses
const (
	OrderCreated = "CREATED"
	OrderPaid    = "PAID"
	OrderFailed  = "FAILED"
)

// Order is a payment-gateway order for a course purchase. The gateway fields
// mirror what the gateway returns on order creation and capture.
type Order struct {
	gorm.Model
	UserID         uint    `json:"user_id" gorm:"index;not null"`
	CourseID       uint    `json:"course_id" gorm:"index;not null"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	Receipt        string  `json:"receipt" gorm:"size:64"`
	GatewayOrderID string  `json:"gateway_order_id" gorm:"index"`
	PaymentID      string  `json:"payment_id"`
	Status         string  `json:"status" gorm:"default:'CREATED'"`
	IsDeleted      bool    `gorm:"default:false"`
}
