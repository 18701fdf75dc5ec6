package model

import "time"

// NotificationType is a closed set of notification kinds. Dispatch on this
// type goes through Action, not through string matching at call sites.
type NotificationType string

const (
	NotificationOrderStatus      NotificationType = "order-status"
	NotificationNewOrder         NotificationType = "new-order"
	NotificationInvestmentUpdate NotificationType = "investment-update"
	NotificationNewQuestion      NotificationType = "new-question"
	NotificationNewReply         NotificationType = "new-reply"
	NotificationGeneric          NotificationType = "generic"
)

// NotificationAction describes what selecting a notification should do.
type NotificationAction struct {
	// Route is the logical destination, e.g. "orders" or "campaigns".
	Route string
	// Icon is the presentation hint for the entry.
	Icon string
}

var notificationActions = map[NotificationType]NotificationAction{
	NotificationOrderStatus:      {Route: "orders", Icon: "package"},
	NotificationNewOrder:         {Route: "seller/orders", Icon: "cart"},
	NotificationInvestmentUpdate: {Route: "campaigns", Icon: "trending-up"},
	NotificationNewQuestion:      {Route: "questions", Icon: "message"},
	NotificationNewReply:         {Route: "questions", Icon: "message"},
	NotificationGeneric:          {Route: "", Icon: "bell"},
}

// Action resolves the handler entry for a notification type. Unknown types
// fall back to the generic entry.
func (t NotificationType) Action() NotificationAction {
	if a, ok := notificationActions[t]; ok {
		return a
	}
	return notificationActions[NotificationGeneric]
}

// Notification is a server-owned alert. The client mutates only Read,
// optimistically and then confirmed with the server.
type Notification struct {
	ID        string           `json:"_id"`
	Type      NotificationType `json:"type"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	Target    string           `json:"target,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}
