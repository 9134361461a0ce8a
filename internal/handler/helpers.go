package handler

import (
	"errors"
	"net/http"
	"reflect"

	"gestoreventos/internal/apierror"
	"gestoreventos/internal/ledger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
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
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusUnprocessableEntity, apierror.WithCode("validacion", err.Error()))
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// parseID reads a UUID path parameter, answering 400 when malformed.
func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// responderError writes the status of a typed ledger error. Anything else is
// handed to the ErrorHandler middleware as a 500.
func responderError(c *gin.Context, err error) {
	var (
		ve *ledger.ValidationError
		ie *ledger.InvalidStateError
		be *ledger.InsufficientBalanceError
		pe *ledger.PreconditionFailedError
		ne *ledger.NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		body := apierror.NewValidation(map[string]string{ve.Campo: ve.Motivo})
		body.Detail = ve.Error()
		c.JSON(http.StatusUnprocessableEntity, body)
	case errors.As(err, &ie):
		c.JSON(http.StatusConflict, apierror.WithCode("estado_invalido", ie.Error()))
	case errors.As(err, &be):
		body := apierror.WithCode("saldo_insuficiente", be.Error())
		body.Solicitado, body.Disponible = &be.Solicitado, &be.Disponible
		c.JSON(http.StatusUnprocessableEntity, body)
	case errors.As(err, &pe):
		c.JSON(http.StatusPreconditionFailed, apierror.WithCode("precondicion", pe.Error()))
	case errors.As(err, &ne):
		c.JSON(http.StatusNotFound, apierror.WithCode("no_encontrado", ne.Error()))
	default:
		_ = c.Error(err)
	}
}
