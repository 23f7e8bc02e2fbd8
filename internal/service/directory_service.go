package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/campusops/facility-desk/internal/domain"
	"github.com/campusops/facility-desk/internal/repository"
	apperrors "github.com/campusops/facility-desk/pkg/util/errorutil"
)

const maxUserCodeAttempts = 50

// DirectoryService manages the user directory.
type DirectoryService struct {
	users    repository.UserRepository
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
	userCode func() string
}

// DirectoryDependencies bundles collaborators for the directory service.
type DirectoryDependencies struct {
	UserRepo repository.UserRepository
	Logger   *zap.Logger
	Clock    func() time.Time
}

// RegisterInput is a self-registration payload.
type RegisterInput struct {
	Name       string      `validate:"required,max=120"`
	Email      string      `validate:"required,email,max=254"`
	Role       domain.Role `validate:"required,oneof=STAFF WORKER"`
	Department string      `validate:"max=120"`
	ContactNo  string      `validate:"max=40"`
}

// UserPatch carries the fields an administrator may change. Nil fields are left alone.
type UserPatch struct {
	Name       *string
	Role       *domain.Role `validate:"omitnil,role"`
	Department *string
	ContactNo  *string
	Approved   *bool
}

// UserFilter narrows ListUsers. Bounds are inclusive.
type UserFilter struct {
	PendingOnly bool
	Search      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// ImportResult summarises a bulk import.
type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// NewDirectoryService constructs the service.
func NewDirectoryService(deps DirectoryDependencies) *DirectoryService {
	svc := &DirectoryService{
		users:    deps.UserRepo,
		validate: newValidator(),
		logger:   deps.Logger,
		now:      deps.Clock,
		userCode: randomUserCode,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	if svc.now == nil {
		svc.now = func() time.Time { return time.Now().UTC() }
	}
	return svc
}

// Register records a self-registration awaiting administrator approval.
func (s *DirectoryService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Department = strings.TrimSpace(input.Department)
	input.ContactNo = strings.TrimSpace(input.ContactNo)
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": input.Email})
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, mapStoreError(err)
	}

	code, err := s.nextUserCode(ctx)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		UserCode:   code,
		Name:       input.Name,
		Email:      input.Email,
		Role:       input.Role,
		Department: input.Department,
		ContactNo:  input.ContactNo,
		CreatedAt:  s.now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, mapStoreError(err)
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// ResolveActor loads the identity a session acts under.
func (s *DirectoryService) ResolveActor(ctx context.Context, userID string) (domain.Actor, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Actor{}, apperrors.NewUnauthorized("unknown user")
		}
		return domain.Actor{}, mapStoreError(err)
	}
	return user.Actor(), nil
}

// ListUsers returns directory entries matching filter, oldest first.
func (s *DirectoryService) ListUsers(ctx context.Context, actor domain.Actor, filter UserFilter) ([]domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	all, err := s.users.List(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	result := make([]domain.User, 0, len(all))
	for _, user := range all {
		if filter.PendingOnly && user.Approved {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(user.Name), search) &&
			!strings.Contains(strings.ToLower(user.Email), search) {
			continue
		}
		if filter.CreatedFrom != nil && user.CreatedAt.Before(*filter.CreatedFrom) {
			continue
		}
		if filter.CreatedTo != nil && user.CreatedAt.After(*filter.CreatedTo) {
			continue
		}
		result = append(result, user)
	}
	return result, nil
}

// ApproveUser grants access to a pending account.
func (s *DirectoryService) ApproveUser(ctx context.Context, actor domain.Actor, userID string) (*domain.User, error) {
	approved := true
	return s.UpdateUser(ctx, actor, userID, UserPatch{Approved: &approved})
}

// UpdateUser applies patch to the user.
func (s *DirectoryService) UpdateUser(ctx context.Context, actor domain.Actor, userID string, patch UserPatch) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateStruct(s.validate, patch); err != nil {
		return nil, err
	}
	if userID == actor.ID {
		if patch.Approved != nil && !*patch.Approved {
			return nil, apperrors.NewValidationError("administrators cannot revoke their own approval",
				map[string]any{"user_id": userID})
		}
		if patch.Role != nil && *patch.Role != domain.RoleAdmin {
			return nil, apperrors.NewValidationError("administrators cannot change their own role",
				map[string]any{"user_id": userID})
		}
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, userNotFoundOr(err, userID)
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name must not be empty", nil)
		}
		user.Name = name
	}
	if patch.Role != nil {
		user.Role = *patch.Role
	}
	if patch.Department != nil {
		user.Department = strings.TrimSpace(*patch.Department)
	}
	if patch.ContactNo != nil {
		user.ContactNo = strings.TrimSpace(*patch.ContactNo)
	}
	if patch.Approved != nil {
		user.Approved = *patch.Approved
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, userNotFoundOr(err, userID)
	}
	return user, nil
}

// DeleteUsers removes every listed account. Unknown IDs are ignored; the count
// of removed accounts is returned.
func (s *DirectoryService) DeleteUsers(ctx context.Context, actor domain.Actor, ids []string) (int, error) {
	if err := requireAdmin(actor); err != nil {
		return 0, err
	}
	for _, id := range ids {
		if id == actor.ID {
			return 0, apperrors.NewValidationError("administrators cannot delete their own account",
				map[string]any{"user_id": id})
		}
	}
	removed := 0
	for _, id := range ids {
		err := s.users.Delete(ctx, id)
		switch {
		case err == nil:
			removed++
		case errors.Is(err, repository.ErrNotFound):
		default:
			return removed, mapStoreError(err)
		}
	}
	return removed, nil
}

// ImportCSV reads "email, name, role" lines and upserts approved accounts.
func (s *DirectoryService) ImportCSV(ctx context.Context, actor domain.Actor, r io.Reader) (ImportResult, error) {
	if err := requireAdmin(actor); err != nil {
		return ImportResult{}, err
	}
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ImportResult{}, apperrors.NewValidationError("malformed csv", map[string]any{"reason": err.Error()})
		}
		rows = append(rows, record)
	}
	return s.importRows(ctx, rows)
}

// ImportXLSX applies ImportCSV semantics to the rows of the workbook's first sheet.
func (s *DirectoryService) ImportXLSX(ctx context.Context, actor domain.Actor, r io.Reader) (ImportResult, error) {
	if err := requireAdmin(actor); err != nil {
		return ImportResult{}, err
	}
	book, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{}, apperrors.NewValidationError("unreadable workbook", map[string]any{"reason": err.Error()})
	}
	defer func() {
		if cerr := book.Close(); cerr != nil {
			s.logger.Warn("close workbook", zap.Error(cerr))
		}
	}()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return ImportResult{}, nil
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return ImportResult{}, apperrors.NewValidationError("unreadable sheet", map[string]any{"reason": err.Error()})
	}
	return s.importRows(ctx, rows)
}

func (s *DirectoryService) importRows(ctx context.Context, rows [][]string) (ImportResult, error) {
	var result ImportResult
	for i, row := range rows {
		email, name, role := importCell(row, 0), importCell(row, 1), domain.Role(strings.ToUpper(importCell(row, 2)))
		if email == "" || name == "" {
			result.Skipped++
			continue
		}
		if i == 0 && strings.EqualFold(email, "email") {
			result.Skipped++
			continue
		}
		if !role.Valid() {
			role = domain.RoleStaff
		}

		existing, err := s.users.GetByEmail(ctx, email)
		switch {
		case err == nil:
			existing.Name = name
			existing.Role = role
			existing.Approved = true
			if err := s.users.Update(ctx, existing); err != nil {
				return result, mapStoreError(err)
			}
			result.Updated++
		case errors.Is(err, repository.ErrNotFound):
			code, err := s.nextUserCode(ctx)
			if err != nil {
				return result, err
			}
			user := &domain.User{
				UserCode:  code,
				Name:      name,
				Email:     email,
				Role:      role,
				Approved:  true,
				CreatedAt: s.now(),
			}
			if err := s.users.Create(ctx, user); err != nil {
				return result, mapStoreError(err)
			}
			result.Created++
		default:
			return result, mapStoreError(err)
		}
	}
	s.logger.Info("user import finished",
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

func (s *DirectoryService) nextUserCode(ctx context.Context) (string, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return "", mapStoreError(err)
	}
	taken := make(map[string]struct{}, len(users))
	for _, u := range users {
		taken[u.UserCode] = struct{}{}
	}
	for attempt := 0; attempt < maxUserCodeAttempts; attempt++ {
		code := s.userCode()
		if _, dup := taken[code]; !dup {
			return code, nil
		}
	}
	return "", apperrors.NewInternalError(errors.New("user code space exhausted"))
}

func randomUserCode() string {
	return fmt.Sprintf("USR-%04d", 1000+rand.IntN(9000))
}

func importCell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func requireAdmin(actor domain.Actor) error {
	if err := requireApproved(actor); err != nil {
		return err
	}
	if actor.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("administrator role required")
	}
	return nil
}

func userNotFoundOr(err error, userID string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("user", map[string]any{"user_id": userID})
	}
	return mapStoreError(err)
}
