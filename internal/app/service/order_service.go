package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/imperiopizzas/imperio-backend/internal/app/cartstore"
	"github.com/imperiopizzas/imperio-backend/internal/app/model"
	"github.com/imperiopizzas/imperio-backend/internal/app/pricing"
	"github.com/imperiopizzas/imperio-backend/internal/app/repository"
	"github.com/imperiopizzas/imperio-backend/internal/events"
	"github.com/imperiopizzas/imperio-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrEmptyCart     = errors.New("cart is empty")
	ErrInvalidTable  = errors.New("invalid table")
)

// ValidationError lists the request fields that failed server-side checks.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

type OrderItemInput struct {
	ProductID   uint
	ProductName string // only used to name a rejected product
	Options     OptionChoice
	Quantity    int
}

type CreateOrderInput struct {
	OrderType          model.OrderType
	TableID            *uint
	CustomerName       string
	CustomerPhone      string
	CustomerAddress    string
	CustomerPostalCode string
	PaymentMethod      string
	Notes              string
	Items              []OrderItemInput
}

type OrderService interface {
	// CreateOrder validates everything up front, prices every line from the
	// catalog and stores the order with its items atomically.
	CreateOrder(ctx context.Context, origin model.Origin, input CreateOrderInput) (*model.Order, error)
	// Checkout submits the session cart. The cart is cleared only when the
	// order was stored.
	Checkout(ctx context.Context, sessionID string, origin model.Origin, input CreateOrderInput) (*model.Order, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status string) (*model.Order, error)
}

type OrderServiceDeps struct {
	OrderRepo   repository.OrderRepository
	ProductRepo repository.ProductRepository
	TableRepo   repository.TableRepository
	CartStore   cartstore.Store
	Publisher   events.Publisher
	DB          *gorm.DB
	DeliveryFee decimal.Decimal
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	tableRepo   repository.TableRepository
	cartStore   cartstore.Store
	publisher   events.Publisher
	db          *gorm.DB
	deliveryFee decimal.Decimal
	now         func() time.Time
}

func NewOrderService(deps OrderServiceDeps) OrderService {
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &orderService{
		orderRepo:   deps.OrderRepo,
		productRepo: deps.ProductRepo,
		tableRepo:   deps.TableRepo,
		cartStore:   deps.CartStore,
		publisher:   publisher,
		db:          deps.DB,
		deliveryFee: deps.DeliveryFee,
		now:         time.Now,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, origin model.Origin, input CreateOrderInput) (*model.Order, error) {
	logger.Info("Creating order", map[string]interface{}{
		"origin":     origin.Kind,
		"table_id":   origin.TableID,
		"order_type": input.OrderType,
		"item_count": len(input.Items),
	})

	origin, err := s.resolveTable(ctx, origin, input.TableID)
	if err != nil {
		return nil, err
	}

	orderType, err := validateCustomer(origin, &input)
	if err != nil {
		logger.Warn("Order rejected by validation", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	order, err := s.buildOrder(ctx, origin, orderType, input)
	if err != nil {
		logger.Warn("Order rejected", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.WithTx(tx).Create(ctx, order)
	})
	if err != nil {
		logger.Error("Failed to store order", err, map[string]interface{}{
			"order_type": order.OrderType,
			"total":      pricing.Format(order.Total),
		})
		return nil, err
	}

	logger.Info("Order created successfully", map[string]interface{}{
		"order_id":   order.ID,
		"order_type": order.OrderType,
		"total":      pricing.Format(order.Total),
	})

	s.publish(ctx, events.OrderCreated, order)
	return order, nil
}

// resolveTable confirms an internal origin still points at an active table.
// A table id in the request body must name an active table too, and it must
// match the session's table when there is one. It never makes an external
// request internal.
func (s *orderService) resolveTable(ctx context.Context, origin model.Origin, bodyTableID *uint) (model.Origin, error) {
	if bodyTableID != nil && *bodyTableID != 0 {
		if _, err := s.activeTable(ctx, *bodyTableID); err != nil {
			return model.Origin{}, err
		}
		if origin.IsInternal() && origin.TableID != *bodyTableID {
			logger.Warn("Order table does not match session table", map[string]interface{}{
				"table_id":         *bodyTableID,
				"session_table_id": origin.TableID,
			})
			return model.Origin{}, ErrInvalidTable
		}
	}

	if !origin.IsInternal() {
		return model.ExternalOrigin(), nil
	}

	table, err := s.activeTable(ctx, origin.TableID)
	if err != nil {
		return model.Origin{}, err
	}
	return model.InternalOrigin(table.ID, table.TableNumber), nil
}

func (s *orderService) activeTable(ctx context.Context, id uint) (*model.Table, error) {
	table, err := s.tableRepo.FindActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Order references invalid table", map[string]interface{}{
				"table_id": id,
			})
			return nil, ErrInvalidTable
		}
		return nil, err
	}
	return table, nil
}

// validateCustomer enforces the fields each origin requires and returns the
// order type to store.
func validateCustomer(origin model.Origin, input *CreateOrderInput) (model.OrderType, error) {
	fields := map[string]string{}

	if len(input.Items) == 0 {
		fields["items"] = "at least one item is required"
	}
	for i, item := range input.Items {
		if item.Quantity < 1 {
			fields[fmt.Sprintf("items[%d].quantity", i)] = "must be at least 1"
		}
	}

	orderType := model.OrderTypeInternal
	if !origin.IsInternal() {
		orderType = input.OrderType
		if strings.TrimSpace(input.CustomerName) == "" {
			fields["customer_name"] = "is required"
		}
		if strings.TrimSpace(input.CustomerPhone) == "" {
			fields["customer_phone"] = "is required"
		}
		switch orderType {
		case model.OrderTypePickup:
		case model.OrderTypeDelivery:
			if strings.TrimSpace(input.CustomerAddress) == "" {
				fields["customer_address"] = "is required for delivery"
			}
		default:
			fields["order_type"] = "must be pickup or delivery"
		}
	}

	if len(fields) > 0 {
		return "", &ValidationError{Fields: fields}
	}
	return orderType, nil
}

func (s *orderService) buildOrder(ctx context.Context, origin model.Origin, orderType model.OrderType, input CreateOrderInput) (*model.Order, error) {
	ids := make([]uint, 0, len(input.Items))
	names := make(map[uint]string, len(input.Items))
	for _, item := range input.Items {
		ids = append(ids, item.ProductID)
		if item.ProductName != "" {
			names[item.ProductID] = item.ProductName
		}
	}

	products, err := loadActiveProducts(ctx, s.productRepo, ids, names)
	if err != nil {
		return nil, err
	}

	items := make([]model.OrderItem, 0, len(input.Items))
	subtotal := decimal.Zero
	for _, in := range input.Items {
		product := products[in.ProductID]
		sel, err := ResolveSelection(product, in.Options)
		if err != nil {
			return nil, err
		}

		line := pricing.NewLine("", product, sel, in.Quantity)
		subtotal = subtotal.Add(line.TotalPrice)
		items = append(items, snapshot(line))
	}

	totals := pricing.CheckoutTotals(subtotal, origin, orderType, s.deliveryFee)
	order := &model.Order{
		OrderType:   orderType,
		DeliveryFee: totals.DeliveryFee,
		Subtotal:    totals.Subtotal,
		Total:       totals.Total,
		Status:      model.OrderStatusPending,
		Items:       items,
	}

	if origin.IsInternal() {
		tableID, tableNumber := origin.TableID, origin.TableNumber
		order.TableID = &tableID
		order.TableNumber = &tableNumber
	}
	order.CustomerName = optional(input.CustomerName)
	order.CustomerPhone = optional(input.CustomerPhone)
	if orderType == model.OrderTypeDelivery {
		order.CustomerAddress = optional(input.CustomerAddress)
		order.CustomerPostalCode = optional(input.CustomerPostalCode)
	}
	order.PaymentMethod = optional(input.PaymentMethod)
	order.Notes = optional(input.Notes)

	return order, nil
}

// snapshot copies catalog names and prices onto the order item.
func snapshot(line model.CartItem) model.OrderItem {
	item := model.OrderItem{
		ProductID:   line.ProductID,
		ProductName: line.ProductName,
		Addons:      model.AddonList(line.Addons),
		Quantity:    line.Quantity,
		UnitPrice:   line.UnitPrice,
		TotalPrice:  line.TotalPrice,
	}
	if line.Size != nil {
		item.SizeName = optional(line.Size.Name)
	}
	if line.Flavor != nil {
		item.FlavorName = optional(line.Flavor.Name)
	}
	return item
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (s *orderService) Checkout(ctx context.Context, sessionID string, origin model.Origin, input CreateOrderInput) (*model.Order, error) {
	cart, err := s.cartStore.Get(ctx, sessionID)
	if err != nil {
		logger.Error("Failed to load cart for checkout", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}
	if cart.IsEmpty() {
		logger.Warn("Checkout with empty cart", map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, ErrEmptyCart
	}

	input.Items = make([]OrderItemInput, 0, len(cart.Items))
	for _, item := range cart.Items {
		in := OrderItemInput{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
		}
		if item.Size != nil {
			in.Options.Size = item.Size.Name
		}
		if item.Flavor != nil {
			in.Options.Flavor = item.Flavor.Name
		}
		for _, addon := range item.Addons {
			in.Options.Addons = append(in.Options.Addons, addon.Name)
		}
		input.Items = append(input.Items, in)
	}

	order, err := s.CreateOrder(ctx, origin, input)
	if err != nil {
		return nil, err
	}

	if err := s.cartStore.Clear(ctx, sessionID); err != nil {
		// The order exists; a stale cart is only an inconvenience.
		logger.Warn("Failed to clear cart after checkout", map[string]interface{}{
			"session_id": sessionID,
			"order_id":   order.ID,
			"error":      err.Error(),
		})
	}
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}
	return order, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, id string, status string) (*model.Order, error) {
	logger.Info("Updating order status", map[string]interface{}{
		"order_id": id,
		"status":   status,
	})

	target, err := model.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	from := order.Status
	if err := model.Transition(order, target); err != nil {
		logger.Warn("Illegal status transition", map[string]interface{}{
			"order_id": id,
			"from":     from,
			"to":       target,
		})
		return nil, err
	}

	updated, err := s.orderRepo.UpdateStatus(ctx, id, from, target)
	if err != nil {
		return nil, err
	}
	if !updated {
		// Someone else moved the order between our read and write.
		current, err := s.GetOrder(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, &model.TransitionError{From: current.Status, To: target}
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": id,
		"from":     from,
		"to":       target,
	})

	s.publish(ctx, events.OrderStatusChanged, order)
	return order, nil
}

// publish never fails the caller; the order is already committed.
func (s *orderService) publish(ctx context.Context, t events.Type, order *model.Order) {
	if err := s.publisher.Publish(ctx, events.NewOrderEvent(t, order, s.now())); err != nil {
		logger.Warn("Failed to publish order event", map[string]interface{}{
			"order_id": order.ID,
			"type":     t,
			"error":    err.Error(),
		})
	}
}
