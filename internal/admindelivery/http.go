// Package admindelivery manages delivery layer of the admin panel API.
package admindelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/ceobank/ceo-bank/internal/accountservice"
	"github.com/ceobank/ceo-bank/internal/domain"
	"github.com/ceobank/ceo-bank/internal/middleware"
	"github.com/ceobank/ceo-bank/pkg/errorspkg"
	"github.com/ceobank/ceo-bank/pkg/tokenpkg"
	"github.com/ceobank/ceo-bank/pkg/web"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// AccountService provides account management interface needed by the admin panel.
//
//go:generate mockgen -source http.go -destination http_mock.go -package admindelivery
type AccountService interface {
	Get(ctx context.Context, id int32) (domain.Account, error)
	List(ctx context.Context) ([]domain.AdminAccountRow, error)
	Create(ctx context.Context, arg accountservice.CreateParams) (domain.Account, error)
	Update(ctx context.Context, arg domain.UpdateAccountParams, newPassword string) (domain.Account, error)
}

// TeamService provides team management interface needed by the admin panel.
type TeamService interface {
	Create(ctx context.Context, name string, memberIDs []int32) (domain.Team, error)
	List(ctx context.Context) ([]domain.Team, error)
	Delete(ctx context.Context, id int32) error
}

// ItemService provides catalog management interface needed by the admin panel.
type ItemService interface {
	Create(ctx context.Context, arg domain.CreateItemParams) (domain.Item, error)
	Update(ctx context.Context, arg domain.UpdateItemParams) (domain.Item, error)
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context) ([]domain.Item, error)
}

// LedgerService provides the balance adjustment operations of the admin panel.
type LedgerService interface {
	AdjustBalance(ctx context.Context, arg domain.AdjustParams) (domain.Account, domain.Entry, error)
	BulkAdjust(ctx context.Context, arg domain.BulkAdjustParams) ([]int32, error)
}

// Notifier pushes refresh hints to connected clients.
type Notifier interface {
	Notify(ctx context.Context, kind domain.NotificationKind, accountIDs ...int32)
	Broadcast(ctx context.Context, kind domain.NotificationKind)
}

// Handler facilitates admin panel delivery layer logic.
type Handler struct {
	accounts AccountService
	teams    TeamService
	items    ItemService
	ledger   LedgerService
	notifier Notifier
}

// NewHandler returns admin panel handler.
func NewHandler(as AccountService, ts TeamService, is ItemService,
	ls LedgerService, n Notifier,
) Handler {
	return Handler{
		accounts: as,
		teams:    ts,
		items:    is,
		ledger:   ls,
		notifier: n,
	}
}

func bindJSON(gctx *gin.Context, req any) bool {
	l := zerolog.Ctx(gctx.Request.Context())

	if err := gctx.ShouldBindJSON(req); err != nil {
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

		return false
	}

	return true
}

type idURI struct {
	ID int32 `uri:"id" binding:"required,min=1"`
}

func bindID(gctx *gin.Context) (int32, bool) {
	var uri idURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		zerolog.Ctx(gctx.Request.Context()).Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: "id must be a positive integer"})

		return 0, false
	}

	return uri.ID, true
}

// adminName resolves the acting admin's display name for ledger entries.
func (h *Handler) adminName(gctx *gin.Context) (string, bool) {
	ctx := gctx.Request.Context()

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	admin, err := h.accounts.Get(ctx, authPayload.AccountID)
	if err != nil {
		if err == domain.ErrAccountNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return "", false
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return "", false
	}

	return admin.FullName, true
}

// ListUsers handles http request for the admin panel's user table.
func (h *Handler) ListUsers(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	rows, err := h.accounts.List(ctx)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: rows})
}

type createUserRequest struct {
	Login    string `json:"login" binding:"required,alphanum"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
	DOB      string `json:"dob"`
	Balance  string `json:"balance"`
}

// CreateUser handles http request to create an account from the admin panel.
func (h *Handler) CreateUser(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req createUserRequest
	if !bindJSON(gctx, &req) {
		return
	}

	account, err := h.accounts.Create(ctx, accountservice.CreateParams{
		Username: req.Login,
		Password: req.Password,
		FullName: req.FullName,
		DOB:      req.DOB,
		Balance:  req.Balance,
	})
	if err != nil {
		if err == domain.ErrUsernameAlreadyExists {
			gctx.JSON(http.StatusConflict, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	h.notifier.Broadcast(ctx, domain.AdminPanelRefresh)

	gctx.JSON(http.StatusOK, web.Response{Data: account})
}

type updateUserRequest struct {
	Login     string `json:"login" binding:"required,alphanum"`
	FullName  string `json:"full_name" binding:"required"`
	DOB       string `json:"dob"`
	Balance   string `json:"balance" binding:"required"`
	IsBlocked bool   `json:"is_blocked"`
	TeamID    *int32 `json:"team_id"`
	Password  string `json:"password"`
}

// UpdateUser handles http request to overwrite an account's editable fields.
func (h *Handler) UpdateUser(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	id, ok := bindID(gctx)
	if !ok {
		return
	}

	var req updateUserRequest
	if !bindJSON(gctx, &req) {
		return
	}

	account, err := h.accounts.Update(ctx, domain.UpdateAccountParams{
		ID:        id,
		Username:  req.Login,
		FullName:  req.FullName,
		DOB:       req.DOB,
		Balance:   req.Balance,
		IsBlocked: req.IsBlocked,
		TeamID:    req.TeamID,
	}, req.Password)
	if err != nil {
		switch err {
		case domain.ErrAccountNotFound, domain.ErrTeamNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		case domain.ErrUsernameAlreadyExists:
			gctx.JSON(http.StatusConflict, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	h.notifier.Broadcast(ctx, domain.AdminPanelRefresh)
	h.notifier.Notify(ctx, domain.FullRefresh, account.ID)

	gctx.JSON(http.StatusOK, web.Response{Data: account})
}

type adjustBalanceRequest struct {
	Amount  string `json:"amount" binding:"required"`
	Comment string `json:"comment"`
}

// AdjustBalance handles http request for a signed admin correction of one
// account's balance.
func (h *Handler) AdjustBalance(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	id, ok := bindID(gctx)
	if !ok {
		return
	}

	var req adjustBalanceRequest
	if !bindJSON(gctx, &req) {
		return
	}

	adminName, ok := h.adminName(gctx)
	if !ok {
		return
	}

	account, _, err := h.ledger.AdjustBalance(ctx, domain.AdjustParams{
		AccountID: id,
		Amount:    req.Amount,
		Comment:   req.Comment,
		AdminName: adminName,
	})
	if err != nil {
		switch err {
		case domain.ErrInvalidAmount:
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		case domain.ErrAccountNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	h.notifier.Broadcast(ctx, domain.AdminPanelRefresh)
	h.notifier.Notify(ctx, domain.FullRefresh, account.ID)

	gctx.JSON(http.StatusOK, web.Response{Data: account})
}

// ListTeams handles http request for the admin panel's team table.
func (h *Handler) ListTeams(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	teams, err := h.teams.List(ctx)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: teams})
}

type createTeamRequest struct {
	Name      string  `json:"name" binding:"required"`
	MemberIDs []int32 `json:"member_ids"`
}

// CreateTeam handles http request to create a team with its initial members.
func (h *Handler) CreateTeam(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req createTeamRequest
	if !bindJSON(gctx, &req) {
		return
	}

	team, err := h.teams.Create(ctx, req.Name, req.MemberIDs)
	if err != nil {
		if err == domain.ErrTeamNameAlreadyExists {
			gctx.JSON(http.StatusConflict, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	h.notifier.Broadcast(ctx, domain.AdminPanelRefresh)

	gctx.JSON(http.StatusOK, web.Response{Data: team})
}

// DeleteTeam handles http request to delete a team. Members revert to having
// no team, their accounts and history stay intact.
func (h *Handler) DeleteTeam(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	id, ok := bindID(gctx)
	if !ok {
		return
	}

	if err := h.teams.Delete(ctx, id); err != nil {
		if err == domain.ErrTeamNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	h.notifier.Broadcast(ctx, domain.AdminPanelRefresh)

	gctx.JSON(http.StatusOK, web.Response{Message: "Team deleted."})
}

type bulkAdjustRequest struct {
	Amount  string `json:"amount" binding:"required"`
	Action  string `json:"action" binding:"required,oneof=add subtract"`
	Comment string `json:"comment"`
}

// BulkAdjust handles http request to credit or debit every member of a team.
func (h *Handler) BulkAdjust(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	id, ok := bindID(gctx)
	if !ok {
		return
	}

	var req bulkAdjustRequest
	if !bindJSON(gctx, &req) {
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		gctx.JSON(http.StatusBadRequest, web.Error(domain.ErrInvalidAmount))
		return
	}

	if req.Action == "subtract" {
		amount = amount.Neg()
	}

	adminName, ok := h.adminName(gctx)
	if !ok {
		return
	}

	affected, err := h.ledger.BulkAdjust(ctx, domain.BulkAdjustParams{
		TeamID:    id,
		Amount:    amount.String(),
		Comment:   req.Comment,
		AdminName: adminName,
	})
	if err != nil {
		switch err {
		case domain.ErrInvalidAmount, domain.ErrEmptyTeam:
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		case domain.ErrTeamNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	h.notifier.Broadcast(ctx, domain.AdminPanelRefresh)
	h.notifier.Notify(ctx, domain.FullRefresh, affected...)

	gctx.JSON(http.StatusOK, web.Response{Message: "Bulk adjustment applied."})
}

// ListItems handles http request for the admin panel's catalog table.
func (h *Handler) ListItems(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	items, err := h.items.List(ctx)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: items})
}

type itemRequest struct {
	Name          string  `json:"name" binding:"required"`
	Price         string  `json:"price" binding:"required"`
	DiscountPrice *string `json:"discount_price"`
	Quantity      int32   `json:"quantity" binding:"min=0"`
	Category      string  `json:"category"`
	Description   string  `json:"description"`
	Image         string  `json:"image"`
}

// CreateItem handles http request to add a shop item to the catalog.
func (h *Handler) CreateItem(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	var req itemRequest
	if !bindJSON(gctx, &req) {
		return
	}

	item, err := h.items.Create(ctx, domain.CreateItemParams{
		Name:          req.Name,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		Quantity:      req.Quantity,
		Category:      req.Category,
		Description:   req.Description,
		Image:         req.Image,
	})
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	h.notifier.Broadcast(ctx, domain.AdminPanelRefresh)
	h.notifier.Broadcast(ctx, domain.ShopRefresh)

	gctx.JSON(http.StatusOK, web.Response{Data: item})
}

// UpdateItem handles http request to overwrite a shop item.
func (h *Handler) UpdateItem(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	id, ok := bindID(gctx)
	if !ok {
		return
	}

	var req itemRequest
	if !bindJSON(gctx, &req) {
		return
	}

	item, err := h.items.Update(ctx, domain.UpdateItemParams{
		ID:            id,
		Name:          req.Name,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		Quantity:      req.Quantity,
		Category:      req.Category,
		Description:   req.Description,
		Image:         req.Image,
	})
	if err != nil {
		if err == domain.ErrItemNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	h.notifier.Broadcast(ctx, domain.AdminPanelRefresh)
	h.notifier.Broadcast(ctx, domain.ShopRefresh)

	gctx.JSON(http.StatusOK, web.Response{Data: item})
}

// DeleteItem handles http request to remove a shop item from the catalog.
func (h *Handler) DeleteItem(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	id, ok := bindID(gctx)
	if !ok {
		return
	}

	if err := h.items.Delete(ctx, id); err != nil {
		if err == domain.ErrItemNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	h.notifier.Broadcast(ctx, domain.AdminPanelRefresh)
	h.notifier.Broadcast(ctx, domain.ShopRefresh)

	gctx.JSON(http.StatusOK, web.Response{Message: "Item deleted."})
}
