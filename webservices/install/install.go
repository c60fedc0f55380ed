// Package install handles the Bitrix24 application install callback and
// stores the OAuth tokens the portal hands over.
package install

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/remiges-tech/amountwords/formdata"
	"github.com/remiges-tech/amountwords/service"
	"github.com/remiges-tech/amountwords/tokenstore"
	"github.com/remiges-tech/amountwords/wscutils"
)

// TokenStoreKey is the service dependency holding the tokenstore.Store.
const TokenStoreKey = "tokens"

const EventAppInstall = "ONAPPINSTALL"

var (
	errMissingAuth  = errors.New("auth data missing")
	errNoTokenStore = errors.New("token store not configured")
)

// HandleInstallRequest serves POST /install.
func HandleInstallRequest(c *gin.Context, s *service.Service) {
	lh := s.LogHarbour.WithModule("install").WithOp("install")

	//-------------------------------------------------------------------------
	// Step 1: Parse the nested form data
	//-------------------------------------------------------------------------
	data, err := formdata.FromRequest(c.Request)
	if err != nil {
		lh.Error(err).LogActivity("form-data parse failed", nil)
		wscutils.SendErrorResponse(c, http.StatusBadRequest, wscutils.NewErrorResponse(wscutils.ErrcodeBadRequest))
		return
	}

	//-------------------------------------------------------------------------
	// Step 2: Check the event and the auth block
	//-------------------------------------------------------------------------
	event, _ := formdata.Lookup(data, "event")
	if event != EventAppInstall {
		lh.Warn().LogActivity("unexpected event", map[string]any{"event": event})
		wscutils.SendErrorResponse(c, http.StatusBadRequest, wscutils.NewErrorResponse(wscutils.ErrcodeUnexpectedEvent, event))
		return
	}

	auth := formdata.Map(data, "auth")
	domain, _ := formdata.Lookup(auth, "domain")
	if len(auth) == 0 || domain == "" {
		lh.Error(errMissingAuth).LogActivity("install rejected", nil)
		wscutils.SendErrorResponse(c, http.StatusBadRequest, wscutils.NewErrorResponse(wscutils.ErrcodeMissingAuth))
		return
	}

	//-------------------------------------------------------------------------
	// Step 3: Save the tokens
	//-------------------------------------------------------------------------
	store, ok := s.Dependencies[TokenStoreKey].(tokenstore.Store)
	if !ok {
		lh.Error(errNoTokenStore).LogActivity("install failed", nil)
		wscutils.SendErrorResponse(c, http.StatusInternalServerError, wscutils.NewErrorResponse(wscutils.ErrcodeInternal))
		return
	}
	if err := store.Save(c.Request.Context(), domain, tokenstore.FromAuth(auth)); err != nil {
		lh.Error(err).LogActivity("saving tokens failed", map[string]any{"domain": domain})
		wscutils.SendErrorResponse(c, http.StatusInternalServerError, wscutils.NewErrorResponse(wscutils.ErrcodeTokenStoreFailed))
		return
	}

	lh.Info().LogActivity("application installed", map[string]any{"domain": domain})
	c.Status(http.StatusOK)
}
