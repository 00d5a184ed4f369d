package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tathienbao/fillsim/internal/types"
	"gopkg.in/yaml.v3"
)

// orderSpec is the YAML shape of one order in the orders file.
type orderSpec struct {
	ID          string    `yaml:"id"`
	Symbol      string    `yaml:"symbol"`
	Type        string    `yaml:"type"`
	Quantity    string    `yaml:"quantity"`
	LimitPrice  string    `yaml:"limit_price"`
	StopPrice   string    `yaml:"stop_price"`
	SubmittedAt time.Time `yaml:"submitted_at"`
}

type ordersFile struct {
	Orders []orderSpec `yaml:"orders"`
}

// loadOrders reads an orders YAML file. Orders without an explicit ID get
// a generated one.
func loadOrders(path string) ([]types.Order, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read orders file: %w", err)
	}
	return parseOrders(data)
}

func parseOrders(data []byte) ([]types.Order, error) {
	var file ordersFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse orders file: %w", err)
	}
	if len(file.Orders) == 0 {
		return nil, fmt.Errorf("%w: orders file contains no orders", types.ErrInvalidOrder)
	}

	orders := make([]types.Order, 0, len(file.Orders))
	for i, spec := range file.Orders {
		order, err := buildOrder(spec)
		if err != nil {
			return nil, fmt.Errorf("orders[%d]: %w", i, err)
		}
		orders = append(orders, order)
	}

	return orders, nil
}

func buildOrder(spec orderSpec) (types.Order, error) {
	order := types.Order{
		ID:          spec.ID,
		Symbol:      spec.Symbol,
		SubmittedAt: spec.SubmittedAt,
	}
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.Symbol == "" {
		return order, fmt.Errorf("%w: symbol is required", types.ErrInvalidOrder)
	}

	orderType, ok := types.ParseOrderType(spec.Type)
	if !ok {
		return order, fmt.Errorf("%w: unknown order type %q", types.ErrInvalidOrder, spec.Type)
	}
	order.Type = orderType

	quantity, err := decimal.NewFromString(spec.Quantity)
	if err != nil || quantity.IsZero() {
		return order, fmt.Errorf("%w: quantity must be a non-zero decimal", types.ErrInvalidOrder)
	}
	order.Quantity = quantity

	if spec.LimitPrice != "" {
		order.LimitPrice, err = decimal.NewFromString(spec.LimitPrice)
		if err != nil {
			return order, fmt.Errorf("%w: bad limit_price %q", types.ErrInvalidOrder, spec.LimitPrice)
		}
	}
	if spec.StopPrice != "" {
		order.StopPrice, err = decimal.NewFromString(spec.StopPrice)
		if err != nil {
			return order, fmt.Errorf("%w: bad stop_price %q", types.ErrInvalidOrder, spec.StopPrice)
		}
	}

	switch order.Type {
	case types.OrderTypeLimit:
		if order.LimitPrice.IsZero() {
			return order, fmt.Errorf("%w: limit orders require limit_price", types.ErrInvalidOrder)
		}
	case types.OrderTypeStopMarket:
		if order.StopPrice.IsZero() {
			return order, fmt.Errorf("%w: stop market orders require stop_price", types.ErrInvalidOrder)
		}
	case types.OrderTypeStopLimit:
		if order.StopPrice.IsZero() || order.LimitPrice.IsZero() {
			return order, fmt.Errorf("%w: stop limit orders require stop_price and limit_price", types.ErrInvalidOrder)
		}
	}

	return order, nil
}
