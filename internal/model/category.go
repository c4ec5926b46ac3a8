package model

// Category groups menu items on the dashboard.  Categories are owned and
// mutated by the upstream API; the gateway only holds time-bounded cached
// copies of them.
//
// Fields:
//  ID          – upstream identifier (Mongo-style "_id").
//  Name        – display name; the upstream rejects empty names.
//  Description – optional free text.
//  StoreID     – owning store, when the upstream includes it.
//  Available   – whether the category is shown to customers.
type Category struct {
    ID          string `json:"_id"`
    Name        string `json:"name"`
    Description string `json:"description,omitempty"`
    StoreID     string `json:"storeId,omitempty"`
    Available   *bool  `json:"available,omitempty"`
}
