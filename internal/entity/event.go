package entity

// Routing keys published by the order and payment services.
const (
	RouteOrderCreated      = "order.created"
	RouteOrderUpdated      = "order.updated"
	RouteOrderCancelled    = "order.cancelled"
	RoutePaymentSuccessful = "payment.successful"
	RoutePaymentFailed     = "payment.failed"
)

// BusinessEvent is the JSON body of an order/payment event. Fields beyond
// userId/orderId are populated per event type; absent ones stay zero.
type BusinessEvent struct {
	UserID        string  `json:"userId"`
	OrderID       string  `json:"orderId"`
	TotalAmount   float64 `json:"totalAmount"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	IsDelivered   bool    `json:"isDelivered"`
	Reason        string  `json:"reason"`
	PaymentID     string  `json:"paymentId"`
	TransactionID string  `json:"transactionId"`
}

// User is the snapshot returned by the user service's internal endpoint.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// DisplayName picks the best human-readable name, falling back to "Customer"
// because upstream data is best-effort.
func (u *User) DisplayName() string {
	if u == nil {
		return "Customer"
	}
	if u.Name != "" {
		return u.Name
	}
	if u.Username != "" {
		return u.Username
	}
	return "Customer"
}

// Order is the snapshot returned by the order service's internal endpoint.
type Order struct {
	ID          string  `json:"id"`
	Status      string  `json:"status"`
	TotalPrice  float64 `json:"totalPrice"`
	IsDelivered bool    `json:"isDelivered"`
}
