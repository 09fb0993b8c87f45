// Package accountdelivery manages delivery layer of account data.
package accountdelivery

import (
	"context"
	"net/http"

	"github.com/ceobank/ceo-bank/internal/domain"
	"github.com/ceobank/ceo-bank/internal/middleware"
	"github.com/ceobank/ceo-bank/pkg/errorspkg"
	"github.com/ceobank/ceo-bank/pkg/tokenpkg"
	"github.com/ceobank/ceo-bank/pkg/web"
	"github.com/gin-gonic/gin"
)

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	GetAppData(ctx context.Context, accountID int32) (domain.AppData, error)
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns account handler.
func NewHandler(s Service) Handler {
	return Handler{service: s}
}

// GetAppData handles http request for the authenticated client's bootstrap
// payload: profile, history and the shop catalog in one round trip.
func (h *Handler) GetAppData(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	data, err := h.service.GetAppData(ctx, authPayload.AccountID)
	if err != nil {
		if err == domain.ErrAccountNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data})
}
