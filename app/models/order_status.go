package models

const (
	OrderStatusPending        = "pending"
	OrderStatusPacked         = "packed"
	OrderStatusShipped        = "shipped"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusPacked,
	OrderStatusShipped,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

var orderTransitions = map[string]string{
	OrderStatusPending:        OrderStatusPacked,
	OrderStatusPacked:         OrderStatusShipped,
	OrderStatusShipped:        OrderStatusOutForDelivery,
	OrderStatusOutForDelivery: OrderStatusDelivered,
}

func IsValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func IsTerminalOrderStatus(status string) bool {
	return status == OrderStatusDelivered || status == OrderStatusCancelled
}

// CanTransitionOrder reports whether an order may move from one status to another.
// Cancellation is allowed from every non-terminal status.
func CanTransitionOrder(from, to string) bool {
	if !IsValidOrderStatus(from) || !IsValidOrderStatus(to) || IsTerminalOrderStatus(from) {
		return false
	}
	if to == OrderStatusCancelled {
		return true
	}
	return orderTransitions[from] == to
}

func OrderStatusLabel(status string) string {
	switch status {
	case OrderStatusPending:
		return "Pending"
	case OrderStatusPacked:
		return "Packed"
	case OrderStatusShipped:
		return "Shipped"
	case OrderStatusOutForDelivery:
		return "Out for Delivery"
	case OrderStatusDelivered:
		return "Delivered"
	case OrderStatusCancelled:
		return "Cancelled"
	default:
		return status
	}
}
