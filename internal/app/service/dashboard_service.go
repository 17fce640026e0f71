package service

import (
	"context"
	"sort"
	"time"

	"github.com/imperiopizzas/imperio-backend/internal/app/model"
	"github.com/imperiopizzas/imperio-backend/internal/app/repository"
	"github.com/imperiopizzas/imperio-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// Dashboard is the staff view derived from the full order list.
type Dashboard struct {
	PendingCount   int             `json:"pending_count"`
	PreparingCount int             `json:"preparing_count"`
	ReadyCount     int             `json:"ready_count"`
	TodayRevenue   decimal.Decimal `json:"today_revenue"`
	Orders         []model.Order   `json:"orders"`
	Tables         []model.Table   `json:"tables,omitempty"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// Aggregate computes counters, today's revenue and the display order. The
// input slice is left untouched. Revenue counts orders created at or after
// local midnight of now in loc.
func Aggregate(orders []model.Order, now time.Time, loc *time.Location) Dashboard {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc).Unix()

	d := Dashboard{
		TodayRevenue: decimal.Zero,
		Orders:       make([]model.Order, len(orders)),
		GeneratedAt:  now,
	}
	copy(d.Orders, orders)

	for _, o := range orders {
		switch o.Status {
		case model.OrderStatusPending:
			d.PendingCount++
		case model.OrderStatusPreparing:
			d.PreparingCount++
		case model.OrderStatusReady:
			d.ReadyCount++
		}
		if o.CreatedAt >= midnight {
			d.TodayRevenue = d.TodayRevenue.Add(o.Total)
		}
	}

	sort.SliceStable(d.Orders, func(i, j int) bool {
		ri, rj := d.Orders[i].Status.Rank(), d.Orders[j].Status.Rank()
		if ri != rj {
			return ri < rj
		}
		return d.Orders[i].CreatedAt > d.Orders[j].CreatedAt
	})
	return d
}

type DashboardService interface {
	GetDashboard(ctx context.Context) (*Dashboard, error)
}

type dashboardService struct {
	orderRepo repository.OrderRepository
	tableRepo repository.TableRepository
	loc       *time.Location
	now       func() time.Time
}

func NewDashboardService(orderRepo repository.OrderRepository, tableRepo repository.TableRepository, loc *time.Location) DashboardService {
	return &dashboardService{
		orderRepo: orderRepo,
		tableRepo: tableRepo,
		loc:       loc,
		now:       time.Now,
	}
}

// GetDashboard recomputes from storage on every call.
func (s *dashboardService) GetDashboard(ctx context.Context) (*Dashboard, error) {
	orders, err := s.orderRepo.FindAll(ctx)
	if err != nil {
		logger.Error("Failed to load orders for dashboard", err)
		return nil, err
	}

	tables, err := s.tableRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	d := Aggregate(orders, s.now(), s.loc)
	d.Tables = tables

	logger.Debug("Dashboard computed", map[string]interface{}{
		"orders":    len(orders),
		"pending":   d.PendingCount,
		"preparing": d.PreparingCount,
		"ready":     d.ReadyCount,
	})
	return &d, nil
}
