package preview

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/merchkit/pricing-api/internal/common"
	"github.com/merchkit/pricing-api/internal/obs"
	"github.com/merchkit/pricing-api/internal/pricing"
	"github.com/merchkit/pricing-api/internal/rules"
)

// Handler serves the storefront preview proxy endpoint. It resolves the best
// discount for one product so the buyer-side client can render a saving badge
// before the cart is confirmed.
type Handler struct {
	Rules    rules.Store
	CacheTTL time.Duration
}

// Resolve handles GET /pricing/preview?productId=<id>&unitPrice=<minor units>.
func (h Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	if h.Rules == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "rule store not configured", nil)
		return
	}
	productID := strings.TrimSpace(r.URL.Query().Get("productId"))
	if productID == "" {
		h.observe("invalid")
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "productId is required", nil)
		return
	}
	unitPrice, err := strconv.ParseInt(strings.TrimSpace(r.URL.Query().Get("unitPrice")), 10, 64)
	if err != nil || unitPrice < 0 {
		h.observe("invalid")
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "unitPrice must be a non-negative integer in minor units", nil)
		return
	}

	active, err := h.Rules.ActiveRules(r.Context())
	if err != nil {
		h.observe("error")
		common.RenderError(w, common.E("RULES_UNAVAILABLE", "unable to load discount rules", http.StatusServiceUnavailable, err))
		return
	}

	if ttl := int(h.CacheTTL.Seconds()); ttl > 0 {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", ttl))
	}

	resolved, ok := pricing.SelectBest(pricing.MatchCandidates(productID, active), unitPrice)
	if !ok {
		h.observe("miss")
		common.JSON(w, http.StatusOK, map[string]any{"success": true, "discount": nil})
		return
	}
	h.observe("hit")
	common.JSON(w, http.StatusOK, map[string]any{"success": true, "discount": resolved})
}

func (h Handler) observe(result string) {
	if obs.PreviewRequestsTotal != nil {
		obs.PreviewRequestsTotal.WithLabelValues(result).Inc()
	}
}
