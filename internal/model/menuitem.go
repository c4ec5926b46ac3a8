package model

// MenuItemStatus mirrors the availability values the upstream uses.
const (
    MenuItemAvailable   = "available"
    MenuItemUnavailable = "unavailable"
)

// MenuItem is a sellable dish or drink.  The category reference is resolved
// by the upstream at write time; the gateway never validates it locally.
//
// Fields:
//  ID          – upstream identifier.
//  Name        – display name.
//  Description – optional free text.
//  Price       – unit price; never negative.
//  Tax         – tax percentage applied to the price.
//  CategoryID  – owning category id.
//  StoreID     – owning store.
//  ImageURL    – optional image location; set by the upstream after a
//                multipart upload.
//  Allergens   – ordered list of allergen labels.
//  IsAvailable – whether the item can currently be ordered.
//  CreatedAt   – creation timestamp (upstream format, carried opaque).
//  UpdatedAt   – last update timestamp.
type MenuItem struct {
    ID          string   `json:"_id"`
    Name        string   `json:"name"`
    Description string   `json:"description,omitempty"`
    Price       float64  `json:"price"`
    Tax         float64  `json:"tax"`
    CategoryID  string   `json:"categoryId"`
    StoreID     string   `json:"storeId,omitempty"`
    ImageURL    string   `json:"imageUrl,omitempty"`
    Allergens   []string `json:"allergens,omitempty"`
    IsAvailable bool     `json:"isAvailable"`
    CreatedAt   string   `json:"createdAt,omitempty"`
    UpdatedAt   string   `json:"updatedAt,omitempty"`
}
