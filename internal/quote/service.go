package quote

import (
	"context"
	"encoding/json"
	"fmt"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/noah-isme/cart-engine/internal/cart"
	"github.com/noah-isme/cart-engine/internal/common"
	"github.com/noah-isme/cart-engine/internal/obs"
	"github.com/noah-isme/cart-engine/internal/pricing"
)

// Tax policy labels reported on quotes.
const (
	PolicyDiscountTaxableLast = "discount_taxable_last"
	PolicyDiscountFirst       = "discount_first"
)

// Quote is one priced cart snapshot.
type Quote struct {
	ID               string         `json:"id"`
	Totals           pricing.Totals `json:"totals"`
	AppliedDiscounts []string       `json:"applied_discounts"`
	TaxPolicy        string         `json:"tax_policy"`
}

// Service prices carts into quotes, filtering discounts through their
// conditions first and consulting the cache keyed by the canonical payload.
type Service struct {
	log      zerolog.Logger
	validate *validator.Validate
	cache    *Cache
	metrics  *obs.QuoteMetrics

	precision     int32
	calcPrecision int32
}

// ServiceConfig configures the Service dependencies. Precision and
// CalcPrecision are the deployment defaults for carts whose payload does not
// pin its own; zero leaves the money package constants in charge.
type ServiceConfig struct {
	Logger        zerolog.Logger
	Validate      *validator.Validate
	Cache         *Cache
	Metrics       *obs.QuoteMetrics
	Precision     int32
	CalcPrecision int32
}

// NewService constructs a Service.
func NewService(cfg ServiceConfig) *Service {
	v := cfg.Validate
	if v == nil {
		v = validator.New()
	}
	return &Service{
		log:           cfg.Logger,
		validate:      v,
		cache:         cfg.Cache,
		metrics:       cfg.Metrics,
		precision:     cfg.Precision,
		calcPrecision: cfg.CalcPrecision,
	}
}

// cartLimits bounds the overall shape of a pricing request.
type cartLimits struct {
	Items         int     `validate:"min=0,max=1000"`
	Shipments     int     `validate:"min=0,max=100"`
	Discounts     int     `validate:"min=0,max=100"`
	TaxRate       float64 `validate:"gte=0,lte=1"`
	Precision     int32   `validate:"gte=0,lte=8"`
	CalcPrecision int32   `validate:"gte=0,lte=12"`
}

// lineLimits bounds one priced line.
type lineLimits struct {
	ID    string  `validate:"required"`
	Price float64 `validate:"gte=0"`
	Qty   int     `validate:"gte=0"`
}

// Price filters the cart's discounts through their conditions, prices the
// result, and returns a quote. Identical payloads are served from the cache.
func (s *Service) Price(ctx context.Context, c *cart.Cart) (*Quote, error) {
	if c == nil {
		return nil, common.ValidationError("cart payload is required", nil)
	}
	if c.Precision <= 0 && s.precision > 0 {
		c.Precision = s.precision
	}
	if c.CalcPrecision <= 0 && s.calcPrecision > 0 {
		c.CalcPrecision = s.calcPrecision
	}
	if err := s.validateCart(c); err != nil {
		return nil, err
	}

	canonical, err := json.Marshal(c)
	if err != nil {
		return nil, common.InternalError("encode cart", err)
	}
	key := Key(canonical)

	var cached Quote
	hit, err := s.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		s.log.Warn().Err(err).Msg("quote cache read failed")
	}
	if hit {
		if s.metrics != nil {
			s.metrics.CacheHits.Inc()
		}
		return &cached, nil
	}
	if s.metrics != nil {
		s.metrics.CacheMiss.Inc()
	}

	applicable := pricing.ApplicableDiscounts(c)
	applied := make([]string, 0, len(applicable))
	for _, d := range applicable {
		applied = append(applied, d.ID)
	}

	priced := *c
	priced.Discounts = applicable
	totals := pricing.NewCalculator(&priced).Totals()

	policy := PolicyDiscountFirst
	if c.DiscountTaxableLast {
		policy = PolicyDiscountTaxableLast
	}
	q := &Quote{
		ID:               uuid.NewString(),
		Totals:           totals,
		AppliedDiscounts: applied,
		TaxPolicy:        policy,
	}
	if s.metrics != nil {
		s.metrics.Priced.WithLabelValues(policy).Inc()
	}
	if err := s.cache.SetJSON(ctx, key, q); err != nil {
		s.log.Warn().Err(err).Msg("quote cache write failed")
	}

	s.log.Debug().
		Str("quote_id", q.ID).
		Int("items", len(c.Items)).
		Int("applied_discounts", len(applied)).
		Str("total", totals.Total).
		Msg("cart priced")
	return q, nil
}

func (s *Service) validateCart(c *cart.Cart) error {
	limits := cartLimits{
		Items:         len(c.Items),
		Shipments:     len(c.Shipments),
		Discounts:     len(c.Discounts),
		TaxRate:       c.TaxRate.InexactFloat64(),
		Precision:     c.Precision,
		CalcPrecision: c.CalcPrecision,
	}
	if err := s.validate.Struct(limits); err != nil {
		return common.ValidationError("cart outside supported bounds", err)
	}
	for _, it := range c.Items {
		line := lineLimits{ID: it.ID, Price: it.Price.InexactFloat64(), Qty: it.Qty}
		if err := s.validate.Struct(line); err != nil {
			return common.ValidationError(fmt.Sprintf("invalid item %q", it.ID), err)
		}
	}
	for _, sh := range c.Shipments {
		line := lineLimits{ID: sh.ID, Price: sh.Price.InexactFloat64(), Qty: 1}
		if err := s.validate.Struct(line); err != nil {
			return common.ValidationError(fmt.Sprintf("invalid shipment %q", sh.ID), err)
		}
	}
	return nil
}
