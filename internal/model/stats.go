package model

import "strings"

// DashboardStats is a derived aggregate computed from the cached order set.
// It is never stored upstream; the gateway recomputes it on demand and
// caches the result like any other resource.
type DashboardStats struct {
    Date            string  `json:"date,omitempty"`
    Revenue         float64 `json:"todayRevenue"`
    CompletedOrders int     `json:"completedOrders"`
    PendingOrders   int     `json:"pendingOrders"`
    ConfirmedOrders int     `json:"confirmedOrders"`
    AverageOrder    float64 `json:"todayAverageOrder"`
}

// ComputeStats derives dashboard statistics from a set of orders.  When date
// is non-empty only orders whose createdAt starts with that prefix (e.g.
// "2026-09-01") are counted.  Revenue and the average order value consider
// completed and confirmed orders only.
func ComputeStats(orders []Order, date string) DashboardStats {
    s := DashboardStats{Date: date}
    for _, o := range orders {
        if date != "" && !strings.HasPrefix(o.CreatedAt, date) {
            continue
        }
        switch o.Status {
        case OrderCompleted:
            s.CompletedOrders++
            s.Revenue += o.TotalAmount
        case OrderConfirmed:
            s.ConfirmedOrders++
            s.Revenue += o.TotalAmount
        case OrderPending:
            s.PendingOrders++
        }
    }
    if n := s.CompletedOrders + s.ConfirmedOrders; n > 0 {
        s.AverageOrder = s.Revenue / float64(n)
    }
    return s
}
