package service

import (
	"context"
	"fmt"
	"time"

	"github.com/imperiopizzas/imperio-backend/internal/app/model"
	"github.com/imperiopizzas/imperio-backend/internal/app/pricing"
	"github.com/imperiopizzas/imperio-backend/internal/app/repository"
	"github.com/imperiopizzas/imperio-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	ReportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ReportDateLayout  = "2006-01-02"

	ordersSheet  = "Orders"
	summarySheet = "Summary"
)

var reportOrderHeader = []interface{}{
	"Order ID", "Created", "Type", "Table", "Customer", "Phone", "Status", "Items", "Subtotal", "Delivery fee", "Total",
}

type ReportService interface {
	// BuildDailyReport renders the orders created on day's local calendar
	// date as an xlsx workbook.
	BuildDailyReport(ctx context.Context, day time.Time) ([]byte, error)
	Location() *time.Location
}

type reportService struct {
	orderRepo repository.OrderRepository
	loc       *time.Location
}

func NewReportService(orderRepo repository.OrderRepository, loc *time.Location) ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &reportService{orderRepo: orderRepo, loc: loc}
}

func (s *reportService) Location() *time.Location {
	return s.loc
}

// DayBounds returns local midnight of day and the following midnight.
func DayBounds(day time.Time, loc *time.Location) (time.Time, time.Time) {
	local := day.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

func (s *reportService) BuildDailyReport(ctx context.Context, day time.Time) ([]byte, error) {
	start, end := DayBounds(day, s.loc)
	orders, err := s.orderRepo.FindCreatedBetween(ctx, start.Unix(), end.Unix())
	if err != nil {
		logger.Error("Failed to load orders for report", err, map[string]interface{}{
			"date": start.Format(ReportDateLayout),
		})
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ordersSheet); err != nil {
		return nil, err
	}
	if err := s.writeOrders(f, orders); err != nil {
		return nil, fmt.Errorf("failed to write orders sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}
	if err := writeSummary(f, start, orders); err != nil {
		return nil, fmt.Errorf("failed to write summary sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}

	logger.Info("Daily report built", map[string]interface{}{
		"date":   start.Format(ReportDateLayout),
		"orders": len(orders),
	})
	return buf.Bytes(), nil
}

func (s *reportService) writeOrders(f *excelize.File, orders []model.Order) error {
	if err := f.SetSheetRow(ordersSheet, "A1", &reportOrderHeader); err != nil {
		return err
	}

	for i, o := range orders {
		table := ""
		if o.TableNumber != nil {
			table = fmt.Sprintf("%d", *o.TableNumber)
		}
		count := 0
		for _, item := range o.Items {
			count += item.Quantity
		}

		row := []interface{}{
			o.ID,
			time.Unix(o.CreatedAt, 0).In(s.loc).Format("15:04:05"),
			string(o.OrderType),
			table,
			deref(o.CustomerName),
			deref(o.CustomerPhone),
			string(o.Status),
			count,
			pricing.Format(o.Subtotal),
			pricing.Format(o.DeliveryFee),
			pricing.Format(o.Total),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ordersSheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(f *excelize.File, day time.Time, orders []model.Order) error {
	counts := make(map[model.OrderStatus]int)
	revenue := decimal.Zero
	for _, o := range orders {
		counts[o.Status]++
		revenue = revenue.Add(o.Total)
	}

	rows := [][]interface{}{
		{"Date", day.Format(ReportDateLayout)},
		{"Orders", len(orders)},
		{"Revenue", pricing.Format(revenue)},
	}
	for _, status := range []model.OrderStatus{
		model.OrderStatusPending,
		model.OrderStatusPreparing,
		model.OrderStatusReady,
		model.OrderStatusDelivered,
		model.OrderStatusCustomerLeft,
	} {
		rows = append(rows, []interface{}{string(status), counts[status]})
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
