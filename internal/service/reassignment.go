package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/internal/classifier"
	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/internal/config"
	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/internal/entity"
	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/internal/fulfillment"
	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/pkg/logger"
	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/pkg/metric"
	"github.com/MatthewAmericana/Pickup-Order-Auto-Reassign/pkg/retry"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	_noteNotSynced   = "order not found in fulfillment system yet; it may sync later"
	_noteNoShipments = "order has no shipments in fulfillment system yet; it may sync later"

	_publishTimeout = time.Second

	shipmentReassigned = "reassigned"
	shipmentSkipped    = "skipped"
	shipmentFailed     = "failed"
)

// ErrDeadlineReached marks shipments skipped because processing ran out of time.
var ErrDeadlineReached = errors.New("processing deadline reached")

type (
	// Waiter blocks for d or until ctx is done.
	Waiter func(ctx context.Context, d time.Duration) error

	Settings struct {
		PickupWarehouseID string
		SourceWarehouseID string
		GracePeriod       time.Duration
		LookupPrefix      string
		StripPrefix       bool
		Concurrency       int
		RetryAttempts     int
		RetryBaseDelay    time.Duration
		RetryMaxDelay     time.Duration
	}

	ReassignmentService struct {
		directory  DirectoryClient
		classifier *classifier.Classifier
		publisher  OutcomePublisher
		validate   *validator.Validate
		retry      *retry.Policy
		wait       Waiter
		settings   Settings
		logger     logger.Logger
		metrics    metric.Reassignment
	}

	shipmentOutcome struct {
		status string
		err    error
	}
)

func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		PickupWarehouseID: cfg.Fulfillment.PickupWarehouseID,
		SourceWarehouseID: cfg.Fulfillment.SourceWarehouseID,
		GracePeriod:       cfg.Reassignment.GracePeriod,
		LookupPrefix:      cfg.Reassignment.LookupPrefix,
		StripPrefix:       cfg.Reassignment.StripPrefix,
		Concurrency:       cfg.Reassignment.Concurrency,
		RetryAttempts:     cfg.Reassignment.RetryAttempts,
		RetryBaseDelay:    cfg.Reassignment.RetryBaseDelay,
		RetryMaxDelay:     cfg.Reassignment.RetryMaxDelay,
	}
}

func NewReassignmentService(
	directory DirectoryClient,
	cls *classifier.Classifier,
	publisher OutcomePublisher,
	settings Settings,
	log logger.Logger,
	metrics metric.Reassignment,
	downstreamMetrics metric.Downstream,
	opts ...Option,
) (*ReassignmentService, error) {
	const op = "service.NewReassignmentService"

	if publisher == nil {
		publisher = NopPublisher{}
	}

	rs := &ReassignmentService{
		directory:  directory,
		classifier: cls,
		publisher:  publisher,
		validate:   validator.New(),
		wait:       SleepContext,
		settings:   settings,
		logger:     log,
		metrics:    metrics,
	}

	for _, opt := range opts {
		opt(rs)
	}

	if err := rs.validateSettings(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	policy, err := retry.New(
		retry.MaxAttempts(settings.RetryAttempts),
		retry.BaseRetryDelay(settings.RetryBaseDelay),
		retry.MaxRetryDelay(settings.RetryMaxDelay),
		retry.RetryIf(fulfillment.IsRetryable),
		retry.OnRetry(func(int, time.Duration, error) {
			if downstreamMetrics != nil {
				downstreamMetrics.Retry(fulfillment.OperationReassignShipment)
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: retry policy: %w", op, err)
	}
	rs.retry = policy

	return rs, nil
}

// Process handles one order-created delivery: it classifies the order, waits
// the grace period and moves every shipment that is not at the pickup
// warehouse. A non-nil error means the lookup failed unexpectedly.
func (rs *ReassignmentService) Process(
	ctx context.Context,
	order *entity.Order,
) (*entity.ReassignmentResult, error) {
	return rs.process(ctx, order, rs.settings.GracePeriod)
}

// Reprocess runs the same flow without the grace wait. It is meant for an
// operator retrying a single order by hand.
func (rs *ReassignmentService) Reprocess(
	ctx context.Context,
	order *entity.Order,
) (*entity.ReassignmentResult, error) {
	return rs.process(ctx, order, 0)
}

// LookupKey derives the downstream order number from the display number.
func (rs *ReassignmentService) LookupKey(displayNumber string) string {
	key := strings.TrimSpace(displayNumber)
	if rs.settings.StripPrefix && rs.settings.LookupPrefix != "" {
		key = strings.TrimPrefix(key, rs.settings.LookupPrefix)
	}
	return strings.TrimSpace(key)
}

func (rs *ReassignmentService) process(
	ctx context.Context,
	order *entity.Order,
	grace time.Duration,
) (result *entity.ReassignmentResult, err error) {
	const op = "service.Process"
	log := rs.logger.Ctx(ctx)

	defer func() {
		if err != nil {
			rs.metrics.Outcome(string(entity.OutcomeError))
			return
		}
		rs.metrics.Outcome(string(result.Outcome))
	}()

	if order == nil {
		log.LogAttrs(ctx, logger.InfoLevel, "order payload is empty")
		return &entity.ReassignmentResult{Outcome: entity.OutcomeInvalidPayload}, nil
	}

	if vErr := rs.validate.Struct(order); vErr != nil {
		log.LogAttrs(ctx, logger.InfoLevel, "order payload is missing required fields",
			logger.String("order_id", string(order.ID)),
			logger.Err(vErr),
		)
		return &entity.ReassignmentResult{Outcome: entity.OutcomeInvalidPayload}, nil
	}

	log = log.With("order_id", string(order.ID), "order_name", order.Name)

	decision := rs.classifier.Classify(order)
	if !decision.IsPickup {
		log.LogAttrs(ctx, logger.InfoLevel, "order is not a pickup order")
		return &entity.ReassignmentResult{Outcome: entity.OutcomeNotPickup}, nil
	}

	key := rs.LookupKey(order.Name)
	if key == "" {
		log.LogAttrs(ctx, logger.InfoLevel, "order display number yields an empty lookup key")
		return &entity.ReassignmentResult{Outcome: entity.OutcomeInvalidPayload}, nil
	}

	log.LogAttrs(ctx, logger.InfoLevel, "pickup order detected",
		logger.String("rule", decision.Rule),
		logger.String("keyword", decision.Keyword),
		logger.String("lookup_key", key),
		logger.Duration("grace_period", grace),
	)

	if waitErr := rs.waitForSync(ctx, grace); waitErr != nil {
		return nil, fmt.Errorf("%s: grace wait: %w", op, waitErr)
	}

	result, err = rs.reassign(ctx, log, key)
	if err != nil {
		log.LogAttrs(ctx, logger.ErrorLevel, "order reassignment failed",
			logger.String("op", op),
			logger.String("lookup_key", key),
			logger.Err(err),
		)
		rs.publish(ctx, log, order, &entity.ReassignmentResult{
			Outcome:   entity.OutcomeError,
			Matched:   true,
			LookupKey: key,
		}, err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rs.publish(ctx, log, order, result, nil)
	return result, nil
}

func (rs *ReassignmentService) reassign(
	ctx context.Context,
	log logger.Logger,
	key string,
) (*entity.ReassignmentResult, error) {
	result := &entity.ReassignmentResult{Matched: true, LookupKey: key}

	downstream, err := rs.directory.FindOrderWithShipments(ctx, key)
	if err != nil {
		if errors.Is(err, entity.ErrOrderNotFound) {
			log.LogAttrs(ctx, logger.WarnLevel, "order not synced to fulfillment system yet",
				logger.String("lookup_key", key),
			)
			result.Outcome = entity.OutcomeOrderNotSynced
			result.Note = _noteNotSynced
			return result, nil
		}
		return nil, fmt.Errorf("find order %q: %w", key, err)
	}

	result.ShipmentsTotal = len(downstream.Shipments)
	if result.ShipmentsTotal == 0 {
		log.LogAttrs(ctx, logger.WarnLevel, "fulfillment order has no shipments yet",
			logger.String("lookup_key", key),
			logger.String("downstream_order_id", downstream.ID),
		)
		result.Outcome = entity.OutcomeNoShipments
		result.Note = _noteNoShipments
		return result, nil
	}

	outcomes := rs.reassignShipments(ctx, log, downstream)

	for i, o := range outcomes {
		rs.metrics.Shipment(o.status)
		switch o.status {
		case shipmentSkipped:
			result.SkippedAlreadyCorrect++
		case shipmentReassigned:
			result.ShipmentsReassigned++
		case shipmentFailed:
			result.ShipmentsFailed++
			result.Failures = append(result.Failures, entity.ShipmentFailure{
				ShipmentID: downstream.Shipments[i].ID,
				Reason:     o.err.Error(),
			})
		}
	}

	result.Outcome = entity.OutcomeSuccess
	if result.ShipmentsFailed > 0 {
		result.Outcome = entity.OutcomePartialFailure
	}

	log.LogAttrs(ctx, logger.InfoLevel, "order reassignment finished",
		logger.String("outcome", string(result.Outcome)),
		logger.String("downstream_order_id", downstream.ID),
		logger.Int("shipments_total", result.ShipmentsTotal),
		logger.Int("shipments_reassigned", result.ShipmentsReassigned),
		logger.Int("skipped_already_correct", result.SkippedAlreadyCorrect),
		logger.Int("shipments_failed", result.ShipmentsFailed),
	)

	return result, nil
}

// reassignShipments returns one outcome per shipment, indexed like
// order.Shipments regardless of completion order. Shipments not yet started
// when ctx ends are reported as failed.
func (rs *ReassignmentService) reassignShipments(
	ctx context.Context,
	log logger.Logger,
	order *entity.DownstreamOrder,
) []shipmentOutcome {
	outcomes := make([]shipmentOutcome, len(order.Shipments))

	var g errgroup.Group
	g.SetLimit(rs.settings.Concurrency)

	for i, shipment := range order.Shipments {
		g.Go(func() error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				outcomes[i] = shipmentOutcome{
					status: shipmentFailed,
					err:    fmt.Errorf("%w: shipment not attempted: %w", ErrDeadlineReached, ctxErr),
				}
				return nil
			}
			outcomes[i] = rs.reassignShipment(ctx, log, order.ID, shipment)
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

func (rs *ReassignmentService) reassignShipment(
	ctx context.Context,
	log logger.Logger,
	orderID string,
	shipment entity.Shipment,
) shipmentOutcome {
	target := rs.settings.PickupWarehouseID

	if shipment.WarehouseID == target {
		log.LogAttrs(ctx, logger.DebugLevel, "shipment already at pickup warehouse",
			logger.String("shipment_id", shipment.ID),
		)
		return shipmentOutcome{status: shipmentSkipped}
	}

	if shipment.ID == "" {
		err := fmt.Errorf("shipment without id: %w", entity.ErrInvalidData)
		log.LogAttrs(ctx, logger.WarnLevel, "shipment reassignment failed", logger.Err(err))
		return shipmentOutcome{status: shipmentFailed, err: err}
	}

	source := rs.settings.SourceWarehouseID
	if source != "" && shipment.WarehouseID != "" && shipment.WarehouseID != source {
		log.LogAttrs(ctx, logger.WarnLevel, "shipment is in an unexpected warehouse",
			logger.String("shipment_id", shipment.ID),
			logger.String("warehouse_id", shipment.WarehouseID),
			logger.String("source_warehouse_id", source),
		)
	}

	attempt := 0
	err := rs.retry.Do(ctx, func(ctx context.Context) error {
		attempt++
		_, callErr := rs.directory.ReassignShipment(ctx, orderID, shipment.ID, target)
		return callErr
	})
	if err != nil {
		log.LogAttrs(ctx, logger.WarnLevel, "shipment reassignment failed",
			logger.String("shipment_id", shipment.ID),
			logger.String("warehouse_id", shipment.WarehouseID),
			logger.String("reason", fulfillment.Reason(err)),
			logger.Int("attempts", attempt),
			logger.Err(err),
		)
		return shipmentOutcome{status: shipmentFailed, err: err}
	}

	log.LogAttrs(ctx, logger.InfoLevel, "shipment reassigned",
		logger.String("shipment_id", shipment.ID),
		logger.String("from_warehouse_id", shipment.WarehouseID),
		logger.String("to_warehouse_id", target),
		logger.Int("attempts", attempt),
	)
	return shipmentOutcome{status: shipmentReassigned}
}

func (rs *ReassignmentService) waitForSync(ctx context.Context, grace time.Duration) error {
	if grace <= 0 {
		return nil
	}

	start := time.Now()
	err := rs.wait(ctx, grace)
	rs.metrics.GraceWait(time.Since(start))
	return err
}

func (rs *ReassignmentService) publish(
	ctx context.Context,
	log logger.Logger,
	order *entity.Order,
	result *entity.ReassignmentResult,
	procErr error,
) {
	event := &entity.OutcomeEvent{
		EventID:               uuid.NewString(),
		RequestID:             logger.RequestID(ctx),
		OrderID:               string(order.ID),
		OrderName:             order.Name,
		LookupKey:             result.LookupKey,
		Outcome:               result.Outcome,
		ShipmentsTotal:        result.ShipmentsTotal,
		ShipmentsReassigned:   result.ShipmentsReassigned,
		SkippedAlreadyCorrect: result.SkippedAlreadyCorrect,
		ShipmentsFailed:       result.ShipmentsFailed,
		Failures:              result.Failures,
		ProcessedAt:           time.Now().UTC(),
	}
	if procErr != nil {
		event.Error = procErr.Error()
	}

	// The processing deadline may already be spent; the event still goes out.
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), _publishTimeout)
	defer cancel()

	if err := rs.publisher.Publish(publishCtx, event); err != nil {
		log.LogAttrs(ctx, logger.WarnLevel, "failed to publish outcome event",
			logger.String("event_id", event.EventID),
			logger.Err(err),
		)
	}
}

func (rs *ReassignmentService) validateSettings() error {
	switch {
	case rs.directory == nil:
		return errors.New("directory client is required")
	case rs.classifier == nil:
		return errors.New("classifier is required")
	case rs.logger == nil:
		return errors.New("logger is required")
	case rs.metrics == nil:
		return errors.New("metrics are required")
	case rs.wait == nil:
		return errors.New("waiter is required")
	case rs.settings.PickupWarehouseID == "":
		return errors.New("pickup warehouse id is required")
	case rs.settings.GracePeriod < 0:
		return errors.New("grace period must be >= 0")
	case rs.settings.Concurrency < 1:
		return errors.New("concurrency must be >= 1")
	}
	return nil
}

// SleepContext waits for d unless ctx ends first.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *entity.OutcomeEvent) error {
	return nil
}
