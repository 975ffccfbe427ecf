package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bookwise/library/internal/auth"
	"github.com/bookwise/library/internal/database/audit"
	"github.com/bookwise/library/internal/database/users"
	"github.com/bookwise/library/internal/entities"
	"github.com/bookwise/library/internal/services"
)

const maxAdminPageSize = 100

// AdminController serves the catalog, account and audit endpoints reserved
// for administrators. Every mutation is written to the audit trail.
type AdminController struct {
	catalog  BookCatalog
	accounts AccountManager
	audit    AuditLog
}

func NewAdminController(catalog BookCatalog, accounts AccountManager, auditLog AuditLog) *AdminController {
	return &AdminController{
		catalog:  catalog,
		accounts: accounts,
		audit:    auditLog,
	}
}

// CreateBook adds a title to the catalog.
// POST /api/admin/books
func (ac *AdminController) CreateBook(c *gin.Context) {
	var in services.BookInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	book, err := ac.catalog.CreateBook(c.Request.Context(), in)
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   verr.Error(),
			Code:    http.StatusBadRequest,
			Details: gin.H{"field": verr.Field},
		})
		return
	}
	if err != nil {
		ac.audit.LogAdmin(auth.GetUserID(c), "book_create", "book", "", "Create "+in.Title, err)
		respondInternalError(c, err, "create book")
		return
	}

	ac.audit.LogAdmin(auth.GetUserID(c), "book_create", "book", book.ID,
		fmt.Sprintf("Created %q by %s", book.Title, book.Author), nil)
	c.JSON(http.StatusCreated, book)
}

// ListUsers returns a page of accounts in the requested status. PENDING is
// the default so the approval queue is one request away.
// GET /api/admin/users?status=&page=&limit=
func (ac *AdminController) ListUsers(c *gin.Context) {
	status := entities.UserStatusPending
	if raw := strings.ToUpper(strings.TrimSpace(c.Query("status"))); raw != "" {
		parsed, ok := entities.ParseUserStatus(raw)
		if !ok {
			respondBadRequest(c, "status must be one of PENDING, APPROVED, REJECTED")
			return
		}
		status = parsed
	}

	page := parsePage(c)
	limit := parseLimit(c, users.DefaultListLimit, maxAdminPageSize)

	list, total, err := ac.accounts.ListUsers(c.Request.Context(), status, limit, (page-1)*limit)
	if err != nil {
		respondInternalError(c, err, "list users")
		return
	}
	c.JSON(http.StatusOK, newPaginatedResponse(list, total, page, limit))
}

// ApproveUser grants borrowing privileges.
// POST /api/admin/users/:id/approve
func (ac *AdminController) ApproveUser(c *gin.Context) {
	ac.changeStatus(c, "user_approve", entities.UserStatusApproved, ac.accounts.ApproveUser)
}

// RejectUser denies borrowing privileges.
// POST /api/admin/users/:id/reject
func (ac *AdminController) RejectUser(c *gin.Context) {
	ac.changeStatus(c, "user_reject", entities.UserStatusRejected, ac.accounts.RejectUser)
}

func (ac *AdminController) changeStatus(c *gin.Context, action string, status entities.UserStatus, apply func(context.Context, string) error) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}
	adminID := auth.GetUserID(c)

	err := apply(c.Request.Context(), id)
	if errors.Is(err, auth.ErrUserNotFound) {
		respondNotFound(c, "user")
		return
	}
	ac.audit.LogAdmin(adminID, action, "user", id, "Set status "+string(status), err)
	if err != nil {
		respondInternalError(c, err, action)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": id, "status": status})
}

// AuditEvents returns a page of the audit trail, optionally filtered by
// event type and user.
// GET /api/admin/audit?type=&user_id=&page=&limit=
func (ac *AdminController) AuditEvents(c *gin.Context) {
	var eventType entities.AuditEventType
	if raw := c.Query("type"); raw != "" {
		parsed, ok := entities.ParseAuditEventType(raw)
		if !ok {
			respondBadRequest(c, "Unknown audit event type")
			return
		}
		eventType = parsed
	}

	page := parsePage(c)
	limit := parseLimit(c, audit.DefaultPageSize, maxAdminPageSize)

	events, total, err := ac.audit.GetEvents(c.Request.Context(), audit.EventQuery{
		UserID:    c.Query("user_id"),
		EventType: eventType,
		Limit:     limit,
		Offset:    (page - 1) * limit,
	})
	if err != nil {
		respondInternalError(c, err, "audit events")
		return
	}
	c.JSON(http.StatusOK, newPaginatedResponse(events, total, page, limit))
}
