// Package convert exposes amount-to-words conversion over HTTP, both as a
// JSON API and as a Bitrix24 business process robot callback.
package convert

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/remiges-tech/amountwords/amount2words"
	"github.com/remiges-tech/amountwords/formdata"
	"github.com/remiges-tech/amountwords/metrics"
	"github.com/remiges-tech/amountwords/service"
	"github.com/remiges-tech/amountwords/wscutils"
)

// ConverterKey is the service dependency holding a *amount2words.Converter.
// Without it the default Russian converter is used.
const ConverterKey = "converter"

const bizprocAmountField = "properties[amount]"

//-----------------------------------------------------------------------------
// Request and response types
//-----------------------------------------------------------------------------

// Amount is a JSON string or number holding a monetary amount.
type Amount string

// UnmarshalJSON keeps number literals as written so that no precision is
// lost to float64.
func (a *Amount) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	*a = Amount(b)
	return nil
}

type AmountRequest struct {
	Amount Amount `json:"amount" validate:"required"`
}

type AmountResponse struct {
	Amount string `json:"amount"`
	Text   string `json:"text"`
}

//-----------------------------------------------------------------------------
// Request handlers
//-----------------------------------------------------------------------------

// HandleAmountRequest serves POST /api/v1/amount2words.
func HandleAmountRequest(c *gin.Context, s *service.Service) {
	var req AmountRequest
	if err := wscutils.BindJSON(c, &req); err != nil {
		return
	}

	if validationErrors := wscutils.WscValidate(req, nil); len(validationErrors) > 0 {
		wscutils.SendErrorResponse(c, http.StatusBadRequest, wscutils.NewResponse(wscutils.ErrorStatus, nil, validationErrors))
		return
	}

	respond(c, s, string(req.Amount), "amount")
}

// HandleBizprocRequest serves POST /bizproc/amount2words. Bitrix24 posts the
// robot properties as form data; the amount is taken from properties[amount].
func HandleBizprocRequest(c *gin.Context, s *service.Service) {
	data, err := formdata.FromRequest(c.Request)
	if err != nil {
		s.LogHarbour.WithModule("convert").WithOp("bizproc").Error(err).LogActivity("form-data parse failed", nil)
		wscutils.SendErrorResponse(c, http.StatusBadRequest, wscutils.NewErrorResponse(wscutils.ErrcodeBadRequest))
		return
	}

	raw, ok := formdata.Lookup(data, "properties", "amount")
	if !ok || strings.TrimSpace(raw) == "" {
		field := bizprocAmountField
		wscutils.SendErrorResponse(c, http.StatusBadRequest, wscutils.NewResponse(wscutils.ErrorStatus, nil,
			[]wscutils.ErrorMessage{wscutils.BuildErrorMessage(wscutils.ErrcodeRequired, &field)}))
		return
	}

	respond(c, s, ExtractAmount(raw), bizprocAmountField)
}

// ExtractAmount normalizes a Bitrix24 money value such as "1 500,50|RUB"
// to "1500.50": the currency suffix after '|' is dropped, spaces (including
// no-break spaces) are removed and a decimal comma becomes a point.
func ExtractAmount(raw string) string {
	amount, _, _ := strings.Cut(raw, "|")
	amount = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\u00a0', '\u202f':
			return -1
		case ',':
			return '.'
		}
		return r
	}, amount)
	return amount
}

func respond(c *gin.Context, s *service.Service, amount, field string) {
	// Leave the response to the timeout middleware.
	if c.Request.Context().Err() != nil {
		return
	}

	lh := s.LogHarbour.WithModule("convert").WithOp("amount2words")

	start := time.Now()
	res, err := converter(s).ConvertParts(amount)
	elapsed := time.Since(start)

	switch {
	case errors.Is(err, amount2words.ErrInvalidAmount):
		metrics.ObserveConversion(s.Metrics, metrics.OutcomeInvalid, elapsed)
		lh.Warn().LogActivity("invalid amount", map[string]any{"amount": amount})
		wscutils.SendErrorResponse(c, http.StatusBadRequest, wscutils.NewResponse(wscutils.ErrorStatus, nil,
			[]wscutils.ErrorMessage{wscutils.BuildErrorMessage(wscutils.ErrcodeInvalidAmount, &field, amount)}))
		return
	case errors.Is(err, amount2words.ErrAmountTooLarge):
		metrics.ObserveConversion(s.Metrics, metrics.OutcomeTooLarge, elapsed)
		lh.Warn().LogActivity("amount too large", map[string]any{"amount": amount})
		wscutils.SendErrorResponse(c, http.StatusUnprocessableEntity, wscutils.NewResponse(wscutils.ErrorStatus, nil,
			[]wscutils.ErrorMessage{wscutils.BuildErrorMessage(wscutils.ErrcodeAmountTooLarge, &field, amount)}))
		return
	case err != nil:
		lh.Error(err).LogActivity("conversion failed", map[string]any{"amount": amount})
		wscutils.SendErrorResponse(c, http.StatusInternalServerError, wscutils.NewErrorResponse(wscutils.ErrcodeInternal))
		return
	}

	metrics.ObserveConversion(s.Metrics, metrics.OutcomeOK, elapsed)
	lh.Debug0().LogActivity("amount converted", map[string]any{"amount": res.Amount(), "text": res.Text})
	wscutils.SendSuccessResponse(c, wscutils.NewSuccessResponse(AmountResponse{
		Amount: res.Amount(),
		Text:   res.Text,
	}))
}

func converter(s *service.Service) *amount2words.Converter {
	if conv, ok := s.Dependencies[ConverterKey].(*amount2words.Converter); ok {
		return conv
	}
	return amount2words.Default()
}
