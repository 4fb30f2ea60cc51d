package entity

// DownstreamOrder is the fulfillment system's view of an order. It is fetched
// per request and never cached.
type DownstreamOrder struct {
	ID          string
	OrderNumber string
	Shipments   []Shipment
}

type Shipment struct {
	ID string
	// WarehouseID is empty when the fulfillment system has not assigned one yet.
	WarehouseID string
}
