package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
)

// validatorSet wraps a configured validator with the custom checks the
// booking payloads need.
type validatorSet struct {
	v *validatorv10.Validate
}

func newValidatorSet() *validatorSet {
	v := validatorv10.New()

	// Packages whose pickup equals their dropoff are almost always a
	// client bug; reject them before pricing.
	v.RegisterStructValidation(packageStructValidation, packagePayload{})

	return &validatorSet{v: v}
}

func packageStructValidation(sl validatorv10.StructLevel) {
	p := sl.Current().Interface().(packagePayload)
	if p.PickupLat == p.DropoffLat && p.PickupLng == p.DropoffLng {
		sl.ReportError(p.DropoffLat, "dropoff_lat", "DropoffLat", "distinct_points", "pickup and dropoff are the same point")
	}
}

// bindAndValidate binds the JSON body into out and runs validation. On
// failure it writes a 400 with a field error map and returns false so the
// handler can short-circuit.
func (g *Gateway) bindAndValidate(c *gin.Context, out interface{}) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid_request_body",
			"msg":   err.Error(),
		})
		return false
	}

	if err := g.validate.v.Struct(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation_failed",
			"fields": validationErrorsToMap(err),
		})
		return false
	}
	return true
}

func validationErrorsToMap(err error) map[string]string {
	out := map[string]string{}
	if ve, ok := err.(validatorv10.ValidationErrors); ok {
		for _, fe := range ve {
			out[fe.StructNamespace()] = fe.Tag()
		}
	} else {
		out["error"] = err.Error()
	}
	return out
}
