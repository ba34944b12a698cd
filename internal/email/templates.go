package email

import (
	"fmt"
	"strings"

	"notification-service/internal/entity"
	"notification-service/pkg/logger"
)

// TemplateID selects a registered render function.
type TemplateID string

const (
	TemplateOrderCreated      TemplateID = "orderCreated"
	TemplateOrderUpdated      TemplateID = "orderUpdated"
	TemplateOrderCancelled    TemplateID = "orderCancelled"
	TemplatePaymentSuccessful TemplateID = "paymentSuccessful"
	TemplatePaymentFailed     TemplateID = "paymentFailed"
)

// RenderedEmail is the pair of bodies produced per send attempt.
type RenderedEmail struct {
	HTML string
	Text string
}

type renderFunc func(data map[string]interface{}) RenderedEmail

// Renderer maps template identifiers to render functions. The registry is
// fixed at construction; unknown identifiers fall back to a minimal default
// so rendering never fails.
type Renderer struct {
	templates map[TemplateID]renderFunc
	logger    *logger.Logger
}

func NewRenderer(log *logger.Logger) *Renderer {
	return &Renderer{
		logger: log,
		templates: map[TemplateID]renderFunc{
			TemplateOrderCreated:      renderOrderCreated,
			TemplateOrderUpdated:      renderOrderUpdated,
			TemplateOrderCancelled:    renderOrderCancelled,
			TemplatePaymentSuccessful: renderPaymentSuccessful,
			TemplatePaymentFailed:     renderPaymentFailed,
		},
	}
}

func (r *Renderer) Render(id TemplateID, data map[string]interface{}) RenderedEmail {
	if data == nil {
		data = map[string]interface{}{}
	}
	fn, ok := r.templates[id]
	if !ok {
		r.logger.Warn("Template '%s' not registered, using fallback template", id)
		return renderFallback(data)
	}
	return fn(data)
}

// renderFallback produces the default body used for unregistered templates.
// It only relies on title and message, both optional.
func renderFallback(data map[string]interface{}) RenderedEmail {
	title := strField(data, "title", "Notification")
	message := strField(data, "message", "")
	name := userName(data)

	html := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">`+
		`<p style="color: #333; font-size: 1.1em;">Hi %s,</p>`+
		`<h2 style="color: #333;">%s</h2>`+
		`<p style="color: #666; line-height: 1.6;">%s</p>`+
		`<p style="color: #999; font-size: 12px; margin-top: 20px;">This is an automated message, please do not reply.</p>`+
		`</div>`, name, title, message)

	text := fmt.Sprintf("Hi %s,\n%s\n%s\nThis is an automated message, please do not reply.", name, title, message)

	return RenderedEmail{HTML: html, Text: text}
}

func renderOrderCreated(data map[string]interface{}) RenderedEmail {
	name := userName(data)
	orderID := orderID(data)
	total := amountField(data, "totalAmount")

	body := []string{
		"Thank you for your order! Your order has been received and is being processed.",
		fmt.Sprintf("Order ID: %s", orderID),
		fmt.Sprintf("Total: $%s", total),
	}
	return wrap(name, "Order Confirmation", body)
}

func renderOrderUpdated(data map[string]interface{}) RenderedEmail {
	name := userName(data)
	status := strField(data, "status", "N/A")

	body := []string{
		fmt.Sprintf("Your order %s has a new status: %s.", orderID(data), status),
	}
	if b, ok := data["isDelivered"].(bool); ok && b {
		body = append(body, "Your order has been delivered. We hope you enjoy your purchase!")
	}
	return wrap(name, "Order Status Updated", body)
}

func renderOrderCancelled(data map[string]interface{}) RenderedEmail {
	name := userName(data)

	body := []string{
		fmt.Sprintf("Your order %s has been cancelled.", orderID(data)),
	}
	if reason := strField(data, "reason", ""); reason != "" {
		body = append(body, fmt.Sprintf("Reason: %s", reason))
	}
	body = append(body, "If you have already been charged, the amount will be refunded within 5-7 business days.")
	return wrap(name, "Order Cancelled", body)
}

func renderPaymentSuccessful(data map[string]interface{}) RenderedEmail {
	name := userName(data)

	body := []string{
		fmt.Sprintf("We received your payment of $%s for order %s.", amountField(data, "amount"), orderID(data)),
		fmt.Sprintf("Transaction ID: %s", strField(data, "transactionId", "N/A")),
	}
	return wrap(name, "Payment Successful", body)
}

func renderPaymentFailed(data map[string]interface{}) RenderedEmail {
	name := userName(data)

	body := []string{
		fmt.Sprintf("Your payment of $%s for order %s could not be processed.", amountField(data, "amount"), orderID(data)),
	}
	if reason := strField(data, "reason", ""); reason != "" {
		body = append(body, fmt.Sprintf("Reason: %s", reason))
	}
	body = append(body, "Please check your payment method and try again.")
	return wrap(name, "Payment Failed", body)
}

// wrap renders the shared layout around a heading and paragraphs.
func wrap(name, heading string, paragraphs []string) RenderedEmail {
	var html strings.Builder
	html.WriteString(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f9f9f9;">`)
	html.WriteString(`<div style="background-color: #fff; padding: 20px; border-radius: 5px;">`)
	html.WriteString(fmt.Sprintf(`<p style="color: #333; font-size: 1.1em;">Hi %s,</p>`, name))
	html.WriteString(fmt.Sprintf(`<h2 style="color: #333;">%s</h2>`, heading))
	for _, p := range paragraphs {
		html.WriteString(fmt.Sprintf(`<p style="color: #666; line-height: 1.6;">%s</p>`, p))
	}
	html.WriteString(`<p style="color: #999; font-size: 12px; margin-top: 20px;">This is an automated message, please do not reply.</p>`)
	html.WriteString(`</div></div>`)

	text := fmt.Sprintf("Hi %s,\n%s\n%s\nThis is an automated message, please do not reply.",
		name, heading, strings.Join(paragraphs, "\n"))

	return RenderedEmail{HTML: html.String(), Text: text}
}

func userName(data map[string]interface{}) string {
	switch u := data["user"].(type) {
	case *entity.User:
		return u.DisplayName()
	case map[string]interface{}:
		if name, ok := u["name"].(string); ok && name != "" {
			return name
		}
		if name, ok := u["username"].(string); ok && name != "" {
			return name
		}
	}
	return "Customer"
}

func orderID(data map[string]interface{}) string {
	if o, ok := data["order"].(*entity.Order); ok && o.ID != "" {
		return "#" + o.ID
	}
	if id := strField(data, "orderId", ""); id != "" {
		return "#" + id
	}
	return "N/A"
}

func strField(data map[string]interface{}, key, fallback string) string {
	if v, ok := data[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func amountField(data map[string]interface{}, key string) string {
	switch v := data[key].(type) {
	case float64:
		return fmt.Sprintf("%.2f", v)
	case int:
		return fmt.Sprintf("%d.00", v)
	case string:
		if v != "" {
			return v
		}
	}
	return "0.00"
}
