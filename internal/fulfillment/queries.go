package fulfillment

// Query texts are constants. Every per-call value travels in "variables".
const (
	findOrderWithShipmentsQuery = `query FindOrderWithShipments($orderNumber: String!) {
  orders(order_number: $orderNumber) {
    data(first: 1) {
      edges {
        node {
          id
          order_number
          shipments {
            id
            warehouse_id
          }
        }
      }
    }
  }
}`

	reassignShipmentMutation = `mutation ReassignShipment($orderId: String!, $shipmentId: String!, $warehouseId: String!) {
  shipment_update_warehouse(data: {order_id: $orderId, shipment_id: $shipmentId, warehouse_id: $warehouseId}) {
    shipment {
      id
      warehouse_id
    }
  }
}`
)

type graphQLRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables"`
}

type graphQLError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

type findOrderData struct {
	Orders *struct {
		Data *struct {
			Edges []struct {
				Node *orderNode `json:"node"`
			} `json:"edges"`
		} `json:"data"`
	} `json:"orders"`
}

type orderNode struct {
	ID          string         `json:"id"`
	OrderNumber string         `json:"order_number"`
	Shipments   []shipmentNode `json:"shipments"`
}

type shipmentNode struct {
	ID          string  `json:"id"`
	WarehouseID *string `json:"warehouse_id"`
}

type reassignShipmentData struct {
	Payload *struct {
		Shipment *shipmentNode `json:"shipment"`
	} `json:"shipment_update_warehouse"`
}
