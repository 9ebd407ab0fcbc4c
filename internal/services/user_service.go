package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"suryaghar-backend/internal/auth"
	applog "suryaghar-backend/internal/logger"
	"suryaghar-backend/internal/models"
	"suryaghar-backend/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errBadCredentials = fmt.Errorf("%w: invalid email or password", ErrUnauthorized)

// partnerCodePrefix tags generated partner codes by tier.
var partnerCodePrefix = map[models.Role]string{
	models.RoleAdmin:           "ADM",
	models.RoleBDP:             "BDP",
	models.RoleDDP:             "DDP",
	models.RoleCustomerPartner: "CP",
}

// requiredParent is the role a new partner's parent must have. Roles not
// listed take no parent.
var requiredParent = map[models.Role]models.Role{
	models.RoleDDP:             models.RoleBDP,
	models.RoleCustomerPartner: models.RoleDDP,
}

type UserService struct {
	users      userStore
	jwtManager *auth.JWTManager
	logger     *zap.Logger
}

func NewUserService(users userStore, jwtManager *auth.JWTManager, logger *zap.Logger) *UserService {
	return &UserService{
		users:      users,
		jwtManager: jwtManager,
		logger:     applog.OrNop(logger),
	}
}

// Login checks the password. Users with TOTP enabled get a pending
// response holding a short-lived token instead of a session.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, *models.LoginStep1Response, error) {
	if err := validation.Struct(req); err != nil {
		return nil, nil, err
	}
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if isNotFound(err) {
		return nil, nil, errBadCredentials
	}
	if err != nil {
		return nil, nil, err
	}
	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, nil, errBadCredentials
	}
	if !user.IsActive {
		return nil, nil, forbidden("account is deactivated")
	}

	if user.TOTPEnabled {
		temp, err := s.jwtManager.GenerateTempToken(user)
		if err != nil {
			return nil, nil, err
		}
		return nil, &models.LoginStep1Response{Requires2FA: true, TempToken: temp}, nil
	}

	resp, err := s.session(user)
	return resp, nil, err
}

// LoginTOTP exchanges a pending token and a TOTP code for a session.
func (s *UserService) LoginTOTP(ctx context.Context, req *models.TOTPLoginRequest) (*models.AuthResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	claims, err := s.jwtManager.ValidateTempToken(req.TempToken)
	if err != nil {
		return nil, fmt.Errorf("%w: 2FA session expired, log in again", ErrUnauthorized)
	}
	user, err := s.users.Get(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, forbidden("account is deactivated")
	}
	if !auth.ValidateTOTP(user.TOTPSecret, req.Code) {
		return nil, fmt.Errorf("%w: invalid verification code", ErrUnauthorized)
	}
	return s.session(user)
}

func (s *UserService) session(user *models.User) (*models.AuthResponse, error) {
	token, err := s.jwtManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user logged in", zap.Int("user_id", user.ID), zap.String("role", string(user.Role)))
	return &models.AuthResponse{Token: token, User: user}, nil
}

func (s *UserService) Me(ctx context.Context, actor models.Actor) (*models.User, error) {
	return s.users.Get(ctx, actor.ID)
}

func (s *UserService) Menu(actor models.Actor) ([]models.MenuItem, error) {
	return models.MenuFor(actor.Role)
}

// SetupTOTP stores a new, not yet enabled, secret for an admin.
func (s *UserService) SetupTOTP(ctx context.Context, actor models.Actor) (*models.TOTPSetupResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	user, err := s.users.Get(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	key, err := auth.GenerateTOTP(user.Email)
	if err != nil {
		return nil, fmt.Errorf("generate totp: %w", err)
	}
	if err := s.users.SetTOTPSecret(ctx, user.ID, key.Secret); err != nil {
		return nil, err
	}
	return &models.TOTPSetupResponse{
		Secret:      key.Secret,
		QRCode:      key.QRCode,
		Issuer:      auth.TOTPIssuer,
		AccountName: user.Email,
	}, nil
}

// EnableTOTP turns 2FA on once the user proves the authenticator works.
func (s *UserService) EnableTOTP(ctx context.Context, actor models.Actor, req *models.TOTPCodeRequest) error {
	if err := validation.Struct(req); err != nil {
		return err
	}
	user, err := s.users.Get(ctx, actor.ID)
	if err != nil {
		return err
	}
	if user.TOTPSecret == "" {
		return invalid("start 2FA setup first")
	}
	if !auth.ValidateTOTP(user.TOTPSecret, req.Code) {
		return invalid("invalid verification code")
	}
	return s.users.EnableTOTP(ctx, user.ID)
}

// CreatePartner onboards a partner of any tier. DDPs hang under a BDP and
// customer-partners under a DDP.
func (s *UserService) CreatePartner(ctx context.Context, actor models.Actor, req *models.CreatePartnerRequest) (*models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	phone, err := validation.NormalizePhone(req.Phone)
	if err != nil {
		return nil, invalid("phone: %v", err)
	}
	if err := s.checkParent(ctx, req.Role, req.ParentID); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        phone,
		PasswordHash: hash,
		Role:         req.Role,
		State:        strings.TrimSpace(req.State),
		District:     strings.TrimSpace(req.District),
		PartnerCode:  NewPartnerCode(req.Role),
		ParentID:     req.ParentID,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, fmt.Errorf("%w: email %s is already registered", ErrConflict, u.Email)
		}
		return nil, fmt.Errorf("create partner: %w", err)
	}

	s.logger.Info("partner created",
		zap.Int("user_id", u.ID),
		zap.String("role", string(u.Role)),
		zap.Int("created_by", actor.ID))
	return u, nil
}

func (s *UserService) checkParent(ctx context.Context, role models.Role, parentID *int) error {
	want, needsParent := requiredParent[role]
	if !needsParent {
		if parentID != nil {
			return invalid("%s partners have no parent", role)
		}
		return nil
	}
	if parentID == nil {
		return invalid("parentId is required for %s partners", role)
	}
	parent, err := s.users.Get(ctx, *parentID)
	if isNotFound(err) {
		return invalid("parent %d does not exist", *parentID)
	}
	if err != nil {
		return err
	}
	if parent.Role != want {
		return invalid("parent of a %s must be a %s, got %s", role, want, parent.Role)
	}
	return nil
}

// NewPartnerCode returns e.g. "DDP-3F9A1C2B".
func NewPartnerCode(role models.Role) string {
	prefix, ok := partnerCodePrefix[role]
	if !ok {
		prefix = "PTR"
	}
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "-" + strings.ToUpper(id[:8])
}

// ListPartners is unrestricted for admins. A BDP only sees its own DDPs
// and a DDP its own customer-partners.
func (s *UserService) ListPartners(ctx context.Context, actor models.Actor, role models.Role, parentID *int) ([]*models.User, error) {
	if role != "" {
		if _, err := models.ParseRole(string(role)); err != nil {
			return nil, invalid("%v", err)
		}
	}
	switch actor.Role {
	case models.RoleAdmin:
	case models.RoleBDP, models.RoleDDP:
		id := actor.ID
		parentID = &id
	default:
		return nil, forbidden("partner lists are not available to %s", actor.Role)
	}
	return s.users.List(ctx, role, parentID)
}

func (s *UserService) SetActive(ctx context.Context, actor models.Actor, id int, active bool) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if id == actor.ID && !active {
		return invalid("you cannot deactivate your own account")
	}
	return s.users.SetActive(ctx, id, active)
}
