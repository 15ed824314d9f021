package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/merchkit/pricing-api/internal/common"
	"github.com/merchkit/pricing-api/internal/obs"
	"github.com/merchkit/pricing-api/internal/pricing"
	"github.com/merchkit/pricing-api/internal/rules"
)

// Handler exposes the merchant-facing cart pricing endpoint.
type Handler struct {
	Rules    rules.Store
	Validate *validator.Validate
	Currency string
}

type priceRequest struct {
	Items []priceRequestItem `json:"items" validate:"required,min=1,dive"`
}

type priceRequestItem struct {
	LineID    string `json:"lineId"`
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	UnitPrice *int64 `json:"unitPrice" validate:"required,gte=0"`
}

type pricedItem struct {
	LineID    string        `json:"lineId"`
	ProductID string        `json:"productId"`
	Quantity  int           `json:"quantity"`
	UnitPrice pricing.Money `json:"unitPrice"`
	Discount  *itemDiscount `json:"discount"`
	LineTotal pricing.Money `json:"lineTotal"`
}

type itemDiscount struct {
	RuleID        string        `json:"ruleId"`
	Name          string        `json:"name"`
	Kind          pricing.Kind  `json:"kind"`
	Magnitude     int64         `json:"magnitude"`
	PerUnitAmount pricing.Money `json:"perUnitAmount"`
	LineAmount    pricing.Money `json:"lineAmount"`
}

// Price handles POST /pricing/cart. Any invalid line fails the whole request;
// pricing correctness matters more than availability for a subset of lines.
func (h *Handler) Price(w http.ResponseWriter, r *http.Request) {
	if h.Rules == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "rule store not configured", nil)
		return
	}
	var req priceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.observe("invalid")
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.validate(req); err != nil {
		h.observe("invalid")
		common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	lines := make([]pricing.Line, 0, len(req.Items))
	for i, item := range req.Items {
		lineID := strings.TrimSpace(item.LineID)
		if lineID == "" {
			lineID = fmt.Sprintf("line-%d", i+1)
		}
		lines = append(lines, pricing.Line{
			LineID:    lineID,
			ProductID: item.ProductID,
			Qty:       item.Quantity,
			UnitPrice: *item.UnitPrice,
		})
	}

	active, err := h.Rules.ActiveRules(r.Context())
	if err != nil {
		h.observe("error")
		common.RenderError(w, common.E("RULES_UNAVAILABLE", "unable to load discount rules", http.StatusServiceUnavailable, err))
		return
	}

	result, err := pricing.PriceCart(lines, active)
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidLine) {
			h.observe("invalid")
			common.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
			return
		}
		h.observe("error")
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "pricing failed", nil)
		return
	}

	items := make([]pricedItem, 0, len(result.Lines))
	discountsApplied := 0
	for _, line := range result.Lines {
		item := pricedItem{
			LineID:    line.LineID,
			ProductID: line.ProductID,
			Quantity:  line.Qty,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal,
		}
		if line.Discount != nil {
			discountsApplied++
			item.Discount = &itemDiscount{
				RuleID:        line.Discount.RuleID,
				Name:          line.Discount.Name,
				Kind:          line.Discount.Kind,
				Magnitude:     line.Discount.Magnitude,
				PerUnitAmount: line.Discount.PerUnitAmount,
				LineAmount:    line.LineDiscount,
			}
		}
		h.observeLine(line.Discount != nil)
		items = append(items, item)
	}

	h.observe("ok")
	common.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"cart": map[string]any{
			"items":            items,
			"subtotal":         result.Subtotal,
			"totalDiscount":    result.TotalDiscount,
			"total":            result.GrandTotal,
			"discountsApplied": discountsApplied,
			"currency":         h.Currency,
		},
	})
}

func (h *Handler) validate(req priceRequest) error {
	if h.Validate != nil {
		return h.Validate.Struct(req)
	}
	if len(req.Items) == 0 {
		return errors.New("items are required")
	}
	return nil
}

func (h *Handler) observe(result string) {
	if obs.PricingRequestsTotal != nil {
		obs.PricingRequestsTotal.WithLabelValues(result).Inc()
	}
}

func (h *Handler) observeLine(discounted bool) {
	if obs.PricingLinesTotal != nil {
		obs.PricingLinesTotal.WithLabelValues(fmt.Sprintf("%t", discounted)).Inc()
	}
}
