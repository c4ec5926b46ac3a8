package model

// User is the profile returned by the upstream verify endpoint.  The session
// token itself is an opaque cookie value the gateway carries but never
// inspects.
type User struct {
    UserID   string `json:"userId"`
    Username string `json:"username"`
    Email    string `json:"email"`
    Role     string `json:"role"`
    StoreID  string `json:"storeId"`
}
