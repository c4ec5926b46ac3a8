package model

// Order status values recognised by the upstream.
const (
    OrderPending   = "pending"
    OrderConfirmed = "confirmed"
    OrderCompleted = "completed"
    OrderCancelled = "cancelled"
)

// OrderItem is one line of an order.  The menu item is embedded as a
// snapshot taken when the order was placed, so later menu edits do not
// rewrite historical orders.
type OrderItem struct {
    ID        string   `json:"_id,omitempty"`
    OrderID   string   `json:"order_id,omitempty"`
    MenuItem  MenuItem `json:"menu_item_id"`
    Quantity  int      `json:"quantity"`
    ItemPrice float64  `json:"item_price"`
    Notes     string   `json:"notes,omitempty"`
}

// TableDetails is the populated table reference embedded in an order.  The
// upstream expands the relation before delivering it, the same way the menu
// item is expanded on order lines.
type TableDetails struct {
    ID      string `json:"_id"`
    Number  string `json:"number"`
    Section string `json:"section,omitempty"`
}

// Order is a customer order as delivered by the upstream API or pushed over
// the real-time channel.  From the gateway's perspective orders are
// append-only except for status transitions.
//
// Fields:
//  ID            – upstream identifier; the identity key for idempotent
//                  event merging.
//  CustomerName  – who placed the order.
//  CustomerPhone – optional contact number.
//  Table         – populated table reference, delivered under "table_id".
//  Items         – order lines, possibly absent on list responses.
//  TotalAmount   – total charged for the order.
//  Status        – one of the Order* constants above.
//  CreatedAt     – upstream creation timestamp, carried opaque; dashboard
//                  stats filter on its date prefix.
type Order struct {
    ID            string       `json:"_id"`
    CustomerName  string       `json:"customer_name"`
    CustomerPhone string       `json:"customer_phone,omitempty"`
    Table         TableDetails `json:"table_id"`
    TableNumber   string       `json:"table_number,omitempty"`
    Items         []OrderItem  `json:"items,omitempty"`
    TotalAmount   float64      `json:"total_amount"`
    Status        string       `json:"status"`
    StoreID       string       `json:"storeId,omitempty"`
    CreatedAt     string       `json:"createdAt"`
    UpdatedAt     string       `json:"updatedAt,omitempty"`
}
