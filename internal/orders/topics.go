package orders

const (
	TopicOrderCreated   = "shop.order.created"
	TopicOrderCancelled = "shop.order.cancelled"
)

// Partition key = order_id, so all events of one order keep their order.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
