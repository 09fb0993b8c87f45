// Package ledgerdelivery manages delivery layer of transfers and purchases.
package ledgerdelivery

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ceobank/ceo-bank/internal/domain"
	"github.com/ceobank/ceo-bank/internal/middleware"
	"github.com/ceobank/ceo-bank/pkg/errorspkg"
	"github.com/ceobank/ceo-bank/pkg/tokenpkg"
	"github.com/ceobank/ceo-bank/pkg/web"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Service provides service layer interface needed by ledger delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package ledgerdelivery
type Service interface {
	Transfer(ctx context.Context, arg domain.TransferParams) (domain.TransferTxResult, []int32, error)
	Purchase(ctx context.Context, arg domain.PurchaseParams) (domain.PurchaseTxResult, error)
}

// Notifier pushes refresh hints to connected clients.
type Notifier interface {
	Notify(ctx context.Context, kind domain.NotificationKind, accountIDs ...int32)
	Broadcast(ctx context.Context, kind domain.NotificationKind)
}

// Handler facilitates ledger delivery layer logic.
type Handler struct {
	service  Service
	notifier Notifier
}

// NewHandler returns ledger handler.
func NewHandler(s Service, n Notifier) Handler {
	return Handler{service: s, notifier: n}
}

type transferRequest struct {
	Recipient string `json:"recipient" binding:"required"`
	Amount    string `json:"amount" binding:"required"`
	Comment   string `json:"comment"`
}

// Transfer handles http request to move money between two accounts.
func (h *Handler) Transfer(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req transferRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		var (
			ve     validator.ValidationErrors
			errMsg string
		)

		if errors.As(err, &ve) {
			field := ve[0]
			errMsg = field.Field() + web.GetErrorMsg(field)
		}

		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: errMsg})

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	_, affected, err := h.service.Transfer(ctx, domain.TransferParams{
		FromAccountID: authPayload.AccountID,
		ToUsername:    req.Recipient,
		Amount:        req.Amount,
		Comment:       req.Comment,
	})
	if err != nil {
		switch err {
		case domain.ErrInvalidAmount,
			domain.ErrNegativeAmount,
			domain.ErrSelfTransfer,
			domain.ErrInsufficientBalance:
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		case domain.ErrRecipientNotFound, domain.ErrAccountNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	h.notifier.Notify(ctx, domain.FullRefresh, affected...)

	gctx.JSON(http.StatusOK, web.Response{Message: "Transfer completed successfully."})
}

type purchaseRequest struct {
	Cart []domain.CartLine `json:"cart" binding:"required,min=1"`
}

// Purchase handles http request to buy a cart of shop items.
func (h *Handler) Purchase(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req purchaseRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		var (
			ve     validator.ValidationErrors
			errMsg string
		)

		if errors.As(err, &ve) {
			field := ve[0]
			errMsg = field.Field() + web.GetErrorMsg(field)
		}

		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: errMsg})

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	res, err := h.service.Purchase(ctx, domain.PurchaseParams{
		AccountID: authPayload.AccountID,
		Cart:      req.Cart,
	})
	if err != nil {
		switch err {
		case domain.ErrEmptyCart,
			domain.ErrInvalidQuantity,
			domain.ErrInsufficientBalance,
			domain.ErrOutOfStock:
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		case domain.ErrItemNotFound, domain.ErrAccountNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	h.notifier.Notify(ctx, domain.FullRefresh, authPayload.AccountID)
	h.notifier.Broadcast(ctx, domain.ShopRefresh)

	gctx.JSON(http.StatusOK, web.Response{
		Message: fmt.Sprintf("Purchase completed, %s charged.", res.Total),
	})
}
