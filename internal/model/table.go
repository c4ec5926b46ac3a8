package model

// Table status values recognised by the upstream.
const (
    TableAvailable   = "available"
    TableOccupied    = "occupied"
    TableReserved    = "reserved"
    TableMaintenance = "maintenance"
)

// Table is a physical dining table.  The (storeId, number) pair is expected
// to be unique, enforced by the upstream.
//
// Fields:
//  ID       – upstream identifier.
//  Number   – human-assigned table number (free-form string).
//  Capacity – number of seats; at least one.
//  Section  – free-form section label; it may name a section that is absent
//             from the store's TableSettings without that being an error.
//  Status   – one of the Table* constants above.
//  StoreID  – owning store.
type Table struct {
    ID        string `json:"_id"`
    Number    string `json:"number"`
    Capacity  int    `json:"capacity"`
    Section   string `json:"section"`
    Status    string `json:"status"`
    StoreID   string `json:"storeId"`
    CreatedAt string `json:"createdAt,omitempty"`
    UpdatedAt string `json:"updatedAt,omitempty"`
}

// TableSettings holds per-store table configuration.  There is one settings
// document per store; sections are plain strings, not foreign keys.
type TableSettings struct {
    ID       string `json:"_id,omitempty"`
    StoreID  string `json:"storeId"`
    Settings struct {
        Sections []string `json:"sections"`
    } `json:"settings"`
}
