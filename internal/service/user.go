package service

import (
	"context"
	"strings"

	"github.com/readshelf/library-service/internal/errs"
	"github.com/readshelf/library-service/internal/model"
	"github.com/readshelf/library-service/internal/repository"
	"github.com/readshelf/library-service/pkg/auth"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	log    *zap.Logger
	users  repository.UserRepository
	tokens repository.TokenRepository
}

func NewUserService(users repository.UserRepository, tokens repository.TokenRepository, log *zap.Logger) *UserService {
	return &UserService{
		log:    log.Named("user-svc"),
		users:  users,
		tokens: tokens,
	}
}

func (s *UserService) usernameIsTaken(ctx context.Context, username string) (bool, error) {
	_, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *UserService) RegisterMember(ctx context.Context, req model.NewMemberRequest) (string, error) {
	if req.Username == "" || req.FirstName == "" || req.LastName == "" || req.Password == "" || req.MembershipLevel == nil {
		return "", errors.Wrap(errs.ErrValidation, "Member must have a username, first name, last name, password and membership level")
	}
	if *req.MembershipLevel <= 0 {
		return "", errors.Wrap(errs.ErrRange, "Membership Level should be at least 1")
	}
	username := strings.ToLower(req.Username)
	taken, err := s.usernameIsTaken(ctx, username)
	if err != nil {
		return "", err
	}
	if taken {
		return "", errors.Wrap(errs.ErrConflict, username+" is already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	user := model.User{
		ID:              uuid.NewString(),
		Username:        username,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Password:        string(hash),
		Role:            model.RoleMember,
		MembershipLevel: *req.MembershipLevel,
		Enabled:         true,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			return "", errors.Wrap(errs.ErrConflict, username+" is already taken")
		}
		return "", err
	}
	s.log.Info("member registered", zap.String("username", username))
	return "Successfully created member: " + username + "!", nil
}

func (s *UserService) RegisterLibrarian(ctx context.Context, req model.NewLibrarianRequest) (string, error) {
	if req.Username == "" || req.FirstName == "" || req.LastName == "" || req.Password == "" {
		return "", errors.Wrap(errs.ErrValidation, "Librarian must have a username, first name, last name, and password")
	}
	username := strings.ToLower(req.Username)
	taken, err := s.usernameIsTaken(ctx, username)
	if err != nil {
		return "", err
	}
	if taken {
		return "", errors.Wrap(errs.ErrConflict, username+" is already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	user := model.User{
		ID:              uuid.NewString(),
		Username:        username,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Password:        string(hash),
		Role:            model.RoleLibrarian,
		MembershipLevel: 0,
		Enabled:         true,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			return "", errors.Wrap(errs.ErrConflict, username+" is already taken")
		}
		return "", err
	}
	s.log.Info("librarian registered", zap.String("username", username))
	return "Successfully created librarian: " + username + "!", nil
}

func (s *UserService) ChangePassword(ctx context.Context, req model.UpdateUserPasswordRequest) (string, error) {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return "", errors.Wrap(errs.ErrValidation, "Please enter current password and new password")
	}
	user, err := s.GetLoggedInUser(ctx)
	if err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return "", errs.ErrWrongPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	user.Password = string(hash)
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return "", err
	}
	return "User " + user.Username + " has successfully changed password", nil
}

// GetUser resolves a user and the books currently held.
func (s *UserService) GetUser(ctx context.Context, id string) (model.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.User{}, errors.Wrap(errs.ErrNotFound, "User with id "+id+" cannot be found")
		}
		return model.User{}, err
	}
	return s.withBorrowedBooks(ctx, user)
}

func (s *UserService) GetLoggedInUser(ctx context.Context) (model.User, error) {
	username := auth.Username(ctx)
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.User{}, errors.Wrap(errs.ErrNotFound, "User "+username+" cannot be found")
		}
		return model.User{}, err
	}
	return s.withBorrowedBooks(ctx, user)
}

func (s *UserService) withBorrowedBooks(ctx context.Context, user model.User) (model.User, error) {
	books, err := s.users.BorrowedBooks(ctx, user.ID)
	if err != nil {
		return model.User{}, err
	}
	user.BorrowedBooks = books
	return user, nil
}

func (s *UserService) DeleteMember(ctx context.Context, id string) (string, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return "", err
	}
	if user.Role == model.RoleLibrarian {
		return "", errors.Wrap(errs.ErrConflict, "User with id "+id+" is a librarian.")
	}
	if len(user.BorrowedBooks) != 0 {
		return "", errors.Wrap(errs.ErrConflict,
			"Member with id "+id+" has borrowed some books. Books need to be returned first")
	}
	if err := s.tokens.DeleteTokensByUsername(ctx, user.Username); err != nil {
		return "", err
	}
	if err := s.users.DeleteUser(ctx, id); err != nil {
		return "", err
	}
	s.log.Info("member deleted", zap.String("id", id))
	return "Member with id " + id + " has been deleted successfully", nil
}

// DeleteSelf removes the caller's account along with the session that
// carried the request.
func (s *UserService) DeleteSelf(ctx context.Context) (string, error) {
	user, err := s.GetLoggedInUser(ctx)
	if err != nil {
		return "", err
	}
	if len(user.BorrowedBooks) != 0 {
		return "", errors.Wrap(errs.ErrConflict,
			"User "+user.Username+" has borrowed some books. Books need to be returned first")
	}
	if err := s.tokens.DeleteToken(ctx, auth.Token(ctx)); err != nil && !errors.Is(err, errs.ErrNotFound) {
		return "", err
	}
	if err := s.users.DeleteUser(ctx, user.ID); err != nil {
		return "", err
	}
	return user.Username + "'s account has been deleted", nil
}

func (s *UserService) UpdateMember(ctx context.Context, id string, req model.UpdateMemberRequest) (model.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return model.User{}, err
	}
	if user.Role == model.RoleLibrarian {
		return model.User{}, errors.Wrap(errs.ErrConflict, "User with id "+id+" is a librarian.")
	}
	if req.MembershipLevel != nil {
		if *req.MembershipLevel <= 0 {
			return model.User{}, errors.Wrap(errs.ErrRange, "Membership Level should be at least 1")
		}
		if len(user.BorrowedBooks) > *req.MembershipLevel {
			return model.User{}, errors.Wrapf(errs.ErrConflict,
				"User with id %s currently has %d books and cannot be given a membership level of %d",
				id, len(user.BorrowedBooks), *req.MembershipLevel)
		}
		user.MembershipLevel = *req.MembershipLevel
	}
	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if err := s.users.UpdateUser(ctx, user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.users.ListUsers(ctx)
}
