package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/farm-market/internal/metrics"
	"github.com/iliyamo/farm-market/internal/model"
	"github.com/iliyamo/farm-market/internal/queue"
	"github.com/iliyamo/farm-market/internal/repository"
	"github.com/iliyamo/farm-market/internal/store"
)

// OrderService places orders and applies farmer decisions.
type OrderService struct {
	orders *repository.OrderRepo
	crops  *repository.CropRepo
	events queue.Publisher
	now    Clock
	newID  IDFunc
}

func NewOrderService(orders *repository.OrderRepo, crops *repository.CropRepo, events queue.Publisher) *OrderService {
	if events == nil {
		events = queue.NopPublisher{}
	}
	return &OrderService{orders: orders, crops: crops, events: events, now: systemClock, newID: newUUID}
}

// Place orders quantity units of an approved listing for buyerID. Stock is
// checked against the listing as it is now and is not reserved, so two
// orders may both pass against the same stock.
func (s *OrderService) Place(ctx context.Context, cropID, buyerID string, quantity float64) (model.Order, error) {
	crop, err := s.crops.GetByID(ctx, cropID)
	if err != nil {
		return model.Order{}, err
	}
	if !crop.IsApproved {
		return model.Order{}, repository.NewValidationError("listing is not open for orders", "cropId")
	}
	if quantity <= 0 || quantity > crop.Quantity {
		return model.Order{}, repository.NewValidationError("quantity must be positive and at most the available stock", "quantity")
	}

	o := model.Order{
		ID:            s.newID(),
		FarmerID:      crop.FarmerID,
		BuyerID:       buyerID,
		CropID:        crop.ID,
		Quantity:      quantity,
		TotalPrice:    orderTotal(quantity, crop.Price),
		Status:        model.OrderPending,
		PaymentStatus: model.PaymentPending,
		CreatedAt:     s.now(),
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return model.Order{}, err
	}
	metrics.OrdersPlaced.Inc()
	s.publish(ctx, queue.OrderPlaced, o)
	return o, nil
}

func orderTotal(quantity, price float64) float64 {
	return decimal.NewFromFloat(quantity).Mul(decimal.NewFromFloat(price)).InexactFloat64()
}

// Decide applies a farmer decision to a pending order. changed is false when
// the order does not exist or has already left pending; a decided order
// never moves again.
func (s *OrderService) Decide(ctx context.Context, orderID string, action model.OrderAction) (model.Order, bool, error) {
	return s.decide(ctx, orderID, "", action)
}

// DecideOwned is Decide restricted to orders placed against farmerID's
// listings.
func (s *OrderService) DecideOwned(ctx context.Context, farmerID, orderID string, action model.OrderAction) (model.Order, bool, error) {
	return s.decide(ctx, orderID, farmerID, action)
}

func (s *OrderService) decide(ctx context.Context, orderID, farmerID string, action model.OrderAction) (model.Order, bool, error) {
	target, ok := action.Target()
	if !ok {
		return model.Order{}, false, repository.NewValidationError("unknown order action", "action")
	}
	changed := false
	o, _, err := s.orders.Update(ctx, orderID, func(o *model.Order) error {
		changed = false
		if farmerID != "" && o.FarmerID != farmerID {
			return repository.ErrForbidden
		}
		if o.Status != model.OrderPending {
			return store.ErrNoChange
		}
		o.Status = target
		changed = true
		return nil
	})
	if err != nil {
		return o, false, err
	}
	if changed {
		metrics.OrderTransitions.WithLabelValues(string(target)).Inc()
		s.publish(ctx, queue.OrderStatusChanged, o)
	}
	return o, changed, nil
}

// ForFarmer lists orders against farmerID's listings.
func (s *OrderService) ForFarmer(ctx context.Context, farmerID string) ([]model.Order, error) {
	return s.orders.ListByFarmer(ctx, farmerID)
}

// ForBuyer lists orders placed by buyerID.
func (s *OrderService) ForBuyer(ctx context.Context, buyerID string) ([]model.Order, error) {
	return s.orders.ListByBuyer(ctx, buyerID)
}

func (s *OrderService) publish(ctx context.Context, typ string, o model.Order) {
	ev := queue.OrderEvent{
		Type:       typ,
		OrderID:    o.ID,
		CropID:     o.CropID,
		FarmerID:   o.FarmerID,
		BuyerID:    o.BuyerID,
		Quantity:   o.Quantity,
		TotalPrice: o.TotalPrice,
		Status:     string(o.Status),
		OccurredAt: s.now(),
	}
	if err := s.events.PublishOrderEvent(ctx, ev); err != nil {
		slog.Warn("order event not published", "type", typ, "order_id", o.ID, "err", err)
	}
}
