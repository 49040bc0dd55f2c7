package todo

// Todo is a single record of the read-only collection served by the API.
type Todo struct {
	ID       string `json:"_id"`
	Owner    string `json:"owner"`
	Status   bool   `json:"status"`
	Category string `json:"category"`
	Body     string `json:"body"`
}

// StatusComplete is the only status token that selects completed todos.
const StatusComplete = "complete"

// OrderField names a field the collection can be ordered by.
type OrderField string

const (
	OrderNone     OrderField = ""
	OrderStatus   OrderField = "status"
	OrderOwner    OrderField = "owner"
	OrderCategory OrderField = "category"
	OrderBody     OrderField = "body"
)

// orderFields lists the supported orderings in a stable order.
var orderFields = []OrderField{OrderStatus, OrderOwner, OrderCategory, OrderBody}

// ParseOrderField maps a query token to an OrderField. Unknown tokens map to OrderNone.
func ParseOrderField(raw string) OrderField {
	for _, field := range orderFields {
		if string(field) == raw {
			return field
		}
	}
	return OrderNone
}
