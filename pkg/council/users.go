package council

import (
	"context"
	"strings"

	"github.com/arnavshah/council-api-go/pkg/auth"
	"github.com/arnavshah/council-api-go/pkg/database"
	"github.com/arnavshah/council-api-go/pkg/guard"
	"github.com/arnavshah/council-api-go/pkg/models"
	"go.uber.org/zap"
)

// GetUser loads a directory entry by id
func (s *Service) GetUser(ctx context.Context, id uint) (*database.User, error) {
	var user database.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, lookupErr("User", err)
	}
	return &user, nil
}

// Authenticate returns the user whose email and password match
func (s *Service) Authenticate(ctx context.Context, email, password string) (*database.User, error) {
	var user database.User
	err := s.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil || !auth.CheckPasswordHash(password, user.PasswordHash) {
		s.logger.Debug("Login rejected", zap.String("email", email))
		return nil, &Error{Kind: KindValidation, Message: "Invalid email or password"}
	}
	return &user, nil
}

// CreateUser adds a directory entry
func (s *Service) CreateUser(ctx context.Context, admin *database.User, in models.UserInput) (*models.UserSummary, error) {
	if !guard.IsAdmin(admin) {
		return nil, forbidden("Not authorized as admin")
	}

	role := in.Role
	if role == "" {
		role = models.RoleStudent
	}
	if !role.Valid() {
		return nil, validationf("invalid user role %q", role)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, internal("failed to hash password", err)
	}

	user := database.User{
		Name:            strings.TrimSpace(in.Name),
		Email:           strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash:    hash,
		Role:            role,
		IsCouncilMember: in.IsCouncilMember,
		StudentID:       in.StudentID,
		Department:      in.Department,
		Year:            in.Year,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isDuplicate(err) {
			return nil, conflict("User already exists")
		}
		return nil, internal("failed to create user", err)
	}

	s.logger.Info("User created",
		zap.Uint("user_id", user.ID),
		zap.String("role", string(user.Role)),
		zap.Bool("council_member", user.IsCouncilMember))

	return userSummary(&user), nil
}

// CouncilMembers returns the council roster in assignment order
func (s *Service) CouncilMembers(ctx context.Context, admin *database.User) ([]models.UserSummary, error) {
	if !guard.IsAdmin(admin) {
		return nil, forbidden("Not authorized as admin")
	}

	members, err := councilRoster(s.db.WithContext(ctx))
	if err != nil {
		return nil, internal("Failed to fetch council members", err)
	}

	out := make([]models.UserSummary, 0, len(members))
	for i := range members {
		out = append(out, *userSummary(&members[i]))
	}
	return out, nil
}
