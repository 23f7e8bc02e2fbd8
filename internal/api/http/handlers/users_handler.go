package handlers

import (
	"bytes"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/campusops/facility-desk/internal/api/dto"
	"github.com/campusops/facility-desk/internal/auth"
	"github.com/campusops/facility-desk/internal/domain"
	"github.com/campusops/facility-desk/internal/report"
	"github.com/campusops/facility-desk/internal/service"
	apperrors "github.com/campusops/facility-desk/pkg/util/errorutil"
)

// UsersHandler serves self-registration and the admin user directory.
type UsersHandler struct {
	directory *service.DirectoryService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(directory *service.DirectoryService) *UsersHandler {
	return &UsersHandler{directory: directory}
}

// Register POST /auth/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.directory.Register(c.UserContext(), service.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Role:       domain.Role(strings.ToUpper(strings.TrimSpace(req.Role))),
		Department: req.Department,
		ContactNo:  req.ContactNo,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": userResponse(user)})
}

// ListUsers GET /admin/users.
func (h *UsersHandler) ListUsers(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	from, err := parseDateBound(c.Query("created_from"), false)
	if err != nil {
		return err
	}
	to, err := parseDateBound(c.Query("created_to"), true)
	if err != nil {
		return err
	}
	users, err := h.directory.ListUsers(c.UserContext(), actor, service.UserFilter{
		PendingOnly: c.QueryBool("pending", false),
		Search:      c.Query("q"),
		CreatedFrom: from,
		CreatedTo:   to,
	})
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ApproveUser POST /admin/users/:id/approve.
func (h *UsersHandler) ApproveUser(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	user, err := h.directory.ApproveUser(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// UpdateUser PATCH /admin/users/:id.
func (h *UsersHandler) UpdateUser(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	patch := service.UserPatch{
		Name:       req.Name,
		Department: req.Department,
		ContactNo:  req.ContactNo,
		Approved:   req.Approved,
	}
	if req.Role != nil {
		role := domain.Role(strings.ToUpper(strings.TrimSpace(*req.Role)))
		patch.Role = &role
	}
	user, err := h.directory.UpdateUser(c.UserContext(), actor, c.Params("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// DeleteUsers DELETE /admin/users.
func (h *UsersHandler) DeleteUsers(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.DeleteUsersRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if len(req.IDs) == 0 {
		return apperrors.NewValidationError("ids required", nil)
	}
	removed, err := h.directory.DeleteUsers(c.UserContext(), actor, req.IDs)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": removed}})
}

// ImportUsers POST /admin/users/import. Accepts a CSV body, an XLSX body, or a
// multipart upload in field "file".
func (h *UsersHandler) ImportUsers(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	body, spreadsheet, err := importPayload(c)
	if err != nil {
		return err
	}
	var result service.ImportResult
	if spreadsheet {
		result, err = h.directory.ImportXLSX(c.UserContext(), actor, bytes.NewReader(body))
	} else {
		result, err = h.directory.ImportCSV(c.UserContext(), actor, bytes.NewReader(body))
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

func importPayload(c *fiber.Ctx) ([]byte, bool, error) {
	contentType := strings.ToLower(c.Get(fiber.HeaderContentType))
	if !strings.HasPrefix(contentType, fiber.MIMEMultipartForm) {
		return c.Body(), strings.HasPrefix(contentType, report.ContentType), nil
	}

	header, err := c.FormFile("file")
	if err != nil {
		return nil, false, apperrors.NewValidationError("file field required", nil)
	}
	file, err := header.Open()
	if err != nil {
		return nil, false, apperrors.NewInternalError(err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, false, apperrors.NewInternalError(err)
	}
	spreadsheet := strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") ||
		strings.HasPrefix(header.Header.Get(fiber.HeaderContentType), report.ContentType)
	return data, spreadsheet, nil
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         user.ID,
		UserCode:   user.UserCode,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		Department: user.Department,
		ContactNo:  user.ContactNo,
		Approved:   user.Approved,
		CreatedAt:  user.CreatedAt,
	}
}
