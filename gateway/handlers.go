package gateway

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Ip-Tec/saze-logistics-sub000/pkg/booking"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/dispatch"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/geo"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/match"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/models"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/pricing"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/repository"
	"github.com/Ip-Tec/saze-logistics-sub000/pkg/status"
)

type packagePayload struct {
	PickupAddress  string  `json:"pickup_address" validate:"required"`
	PickupLat      float64 `json:"pickup_lat" validate:"latitude"`
	PickupLng      float64 `json:"pickup_lng" validate:"longitude"`
	DropoffAddress string  `json:"dropoff_address" validate:"required"`
	DropoffLat     float64 `json:"dropoff_lat" validate:"latitude"`
	DropoffLng     float64 `json:"dropoff_lng" validate:"longitude"`
	Description    string  `json:"item_description"`
	Quantity       int     `json:"quantity" validate:"min=1"`
}

func (p packagePayload) toInput() booking.PackageInput {
	return booking.PackageInput{
		PickupAddress:  p.PickupAddress,
		Pickup:         geo.Coordinate{Lat: p.PickupLat, Lng: p.PickupLng},
		DropoffAddress: p.DropoffAddress,
		Dropoff:        geo.Coordinate{Lat: p.DropoffLat, Lng: p.DropoffLng},
		Description:    p.Description,
		Quantity:       p.Quantity,
	}
}

func toInputs(payloads []packagePayload) []booking.PackageInput {
	out := make([]booking.PackageInput, 0, len(payloads))
	for _, p := range payloads {
		out = append(out, p.toInput())
	}
	return out
}

type quoteRequest struct {
	Packages []packagePayload `json:"packages" validate:"required,min=1,dive"`
}

type createOrderRequest struct {
	UserID              string           `json:"user_id" validate:"required"`
	VendorID            string           `json:"vendor_id"`
	RiderID             *string          `json:"rider_id"`
	DeliveryAddressID   *string          `json:"delivery_address_id"`
	PaymentMethod       string           `json:"payment_method"`
	SpecialInstructions string           `json:"special_instructions"`
	Packages            []packagePayload `json:"packages" validate:"required,min=1,dive"`
}

type statusUpdateRequest struct {
	To string `json:"to" validate:"required"`
}

type assignRiderRequest struct {
	RiderID string `json:"rider_id" validate:"required"`
}

type locationUpdateRequest struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lng float64 `json:"lng" validate:"longitude"`
}

type riderProfileRequest struct {
	ID           string `json:"id"`
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone"`
	VehicleType  string `json:"vehicle_type"`
	LicensePlate string `json:"license_plate"`
}

// principal is the per-request session identity. Auth itself is handled
// upstream; the gateway only consumes the already-resolved identity
// headers instead of keeping ambient session state.
type principal struct {
	ID   string
	Role status.Role
}

func (g *Gateway) principalFrom(c *gin.Context) (principal, bool) {
	p := principal{
		ID:   c.GetHeader("X-Actor-Id"),
		Role: status.Role(c.GetHeader("X-Actor-Role")),
	}
	if p.ID == "" || p.Role == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing_actor_identity"})
		return principal{}, false
	}
	switch p.Role {
	case status.RoleUser, status.RoleVendor, status.RoleRider, status.RoleAdmin:
	default:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown_actor_role"})
		return principal{}, false
	}
	return p, true
}

// writeBookingError maps domain errors onto HTTP statuses. Everything
// else is a 500 with a generic body; details go to the log, not the
// client.
func (g *Gateway) writeBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrNoPackages):
		c.JSON(http.StatusBadRequest, gin.H{"error": "no_packages"})
	case errors.Is(err, match.ErrNoRiders):
		c.JSON(http.StatusConflict, gin.H{"error": "no_riders_available"})
	case errors.Is(err, booking.ErrManualSelectionRequired):
		c.JSON(http.StatusConflict, gin.H{
			"error":                     "manual_selection_required",
			"manual_selection_required": true,
		})
	case errors.Is(err, booking.ErrNotARider), errors.Is(err, dispatch.ErrNotARider):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "not_a_rider"})
	case errors.Is(err, pricing.ErrConfigUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "pricing_unavailable"})
	case errors.Is(err, dispatch.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
	case errors.Is(err, dispatch.ErrTransitionDenied):
		c.JSON(http.StatusConflict, gin.H{"error": "transition_denied"})
	case errors.Is(err, repository.ErrStaleStatus):
		c.JSON(http.StatusConflict, gin.H{"error": "order_changed_concurrently"})
	default:
		g.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}

func (g *Gateway) createQuote(c *gin.Context) {
	var req quoteRequest
	if !g.bindAndValidate(c, &req) {
		return
	}

	quote, err := g.booking.Quote(c.Request.Context(), toInputs(req.Packages))
	if err != nil {
		g.writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}

func (g *Gateway) createOrder(c *gin.Context) {
	var req createOrderRequest
	if !g.bindAndValidate(c, &req) {
		return
	}

	order, err := g.booking.Submit(c.Request.Context(), booking.Request{
		UserID:              req.UserID,
		VendorID:            req.VendorID,
		RiderID:             req.RiderID,
		DeliveryAddressID:   req.DeliveryAddressID,
		PaymentMethod:       req.PaymentMethod,
		SpecialInstructions: req.SpecialInstructions,
		Packages:            toInputs(req.Packages),
	})
	if err != nil {
		g.writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (g *Gateway) getOrder(c *gin.Context) {
	order, err := g.orders.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		g.writeBookingError(c, err)
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (g *Gateway) listOrders(c *gin.Context) {
	params := repository.ListParams{
		UserID:   c.Query("user_id"),
		VendorID: c.Query("vendor_id"),
		RiderID:  c.Query("rider_id"),
	}
	if s := c.Query("status"); s != "" {
		st := status.Status(s)
		if !st.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown_status"})
			return
		}
		params.Statuses = []status.Status{st}
	}

	orders, err := g.orders.List(c.Request.Context(), params)
	if err != nil {
		g.writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": len(orders)})
}

func (g *Gateway) updateOrderStatus(c *gin.Context) {
	p, ok := g.principalFrom(c)
	if !ok {
		return
	}

	var req statusUpdateRequest
	if !g.bindAndValidate(c, &req) {
		return
	}
	to := status.Status(req.To)
	if !to.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown_status"})
		return
	}

	order, err := g.dispatch.AdvanceStatus(c.Param("id"), to, p.ID, p.Role)
	if err != nil {
		g.writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (g *Gateway) assignRider(c *gin.Context) {
	p, ok := g.principalFrom(c)
	if !ok {
		return
	}

	var req assignRiderRequest
	if !g.bindAndValidate(c, &req) {
		return
	}

	order, err := g.dispatch.AssignRider(c.Param("id"), req.RiderID, p.ID, p.Role)
	if err != nil {
		g.writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (g *Gateway) listOrderEvents(c *gin.Context) {
	events, err := g.events.ListOrderEvents(c.Request.Context(), c.Param("id"), 100)
	if err != nil {
		g.writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events, "total": len(events)})
}

// streamOrder pushes order change events as server-sent events until the
// client disconnects.
func (g *Gateway) streamOrder(c *gin.Context) {
	ctx := c.Request.Context()
	events, stop := g.bridge.SubscribeOrder(ctx, c.Param("id"))
	defer stop()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, open := <-events:
			if !open {
				return false
			}
			c.SSEvent("order", ev)
			return true
		case <-ctx.Done():
			return false
		}
	})
}

func (g *Gateway) upsertRiderProfile(c *gin.Context) {
	var req riderProfileRequest
	if !g.bindAndValidate(c, &req) {
		return
	}

	profile := &models.Profile{
		ID:           req.ID,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		VehicleType:  req.VehicleType,
		LicensePlate: req.LicensePlate,
	}
	if err := g.profiles.UpsertRider(c.Request.Context(), profile); err != nil {
		g.writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (g *Gateway) nearbyRiders(c *gin.Context) {
	var q struct {
		Lat      float64 `form:"lat"`
		Lng      float64 `form:"lng"`
		RadiusKm float64 `form:"radius_km"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_query", "msg": err.Error()})
		return
	}
	if q.RadiusKm <= 0 {
		q.RadiusKm = g.config.Dispatch.SearchRadiusKm
	}

	candidates, err := g.redis.NearbyRiders(c.Request.Context(), geo.Coordinate{Lat: q.Lat, Lng: q.Lng}, q.RadiusKm, 0)
	if err != nil {
		g.writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"riders": candidates, "total": len(candidates)})
}

func (g *Gateway) updateRiderLocation(c *gin.Context) {
	p, ok := g.principalFrom(c)
	if !ok {
		return
	}
	riderID := c.Param("id")
	if p.Role == status.RoleRider && p.ID != riderID {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot_update_other_rider"})
		return
	}

	var req locationUpdateRequest
	if !g.bindAndValidate(c, &req) {
		return
	}

	err := g.redis.UpdateRiderLocation(c.Request.Context(), riderID, geo.Coordinate{Lat: req.Lat, Lng: req.Lng})
	if err != nil {
		g.writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (g *Gateway) removeRiderLocation(c *gin.Context) {
	p, ok := g.principalFrom(c)
	if !ok {
		return
	}
	riderID := c.Param("id")
	if p.Role == status.RoleRider && p.ID != riderID {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot_update_other_rider"})
		return
	}

	if err := g.redis.RemoveRiderLocation(c.Request.Context(), riderID); err != nil {
		g.writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (g *Gateway) listVendors(c *gin.Context) {
	vendors, err := g.profiles.ListByRole(c.Request.Context(), "vendor", 100)
	if err != nil {
		g.writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vendors": vendors, "total": len(vendors)})
}
