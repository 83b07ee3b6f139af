package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/apierror"
	"github.com/vagnerleitte/bar-controller-pro-sub000/internal/service"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// parseID extracts and parses the :id path param, writing the 400 itself.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// parseUUIDField parses a UUID coming from a request body field, writing
// the 400 itself so callers can just return on error.
func parseUUIDField(c *gin.Context, value, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(field+" invalido"))
	}
	return id, err
}

// writeServiceError maps service-layer errors to HTTP responses. Ledger
// rejections become 422 with the motivo; everything else is a 400 with the
// error message (not-found messages read naturally either way).
func writeServiceError(c *gin.Context, err error) {
	var rej *service.Rejeicao
	if errors.As(err, &rej) {
		c.JSON(http.StatusUnprocessableEntity, apierror.NewRejection(rej.Error(), string(rej.Motivo)))
		return
	}
	c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
}
