package service

import (
	"context"

	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/internal/entity"
)

//go:generate mockgen -source=service.go -destination=mock/service.go -package=mock_service

type (
	DirectoryClient interface {
		FindOrderWithShipments(ctx context.Context, lookupKey string) (*entity.DownstreamOrder, error)
		ReassignShipment(ctx context.Context, orderID, shipmentID, warehouseID string) (string, error)
	}

	OutcomePublisher interface {
		Publish(ctx context.Context, event *entity.OutcomeEvent) error
	}
)
