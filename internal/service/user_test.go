package service_test

import (
	"context"
	"testing"

	"github.com/readshelf/library-service/internal/errs"
	"github.com/readshelf/library-service/internal/model"
	mock_repository "github.com/readshelf/library-service/internal/repository/mocks"
	"github.com/readshelf/library-service/internal/service"
	"github.com/readshelf/library-service/pkg/auth"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func intPtr(v int) *int { return &v }

func newUserService(t *testing.T) (*service.UserService, *mock_repository.MockUserRepository, *mock_repository.MockTokenRepository) {
	t.Helper()
	c := gomock.NewController(t)
	t.Cleanup(c.Finish)
	users := mock_repository.NewMockUserRepository(c)
	tokens := mock_repository.NewMockTokenRepository(c)
	return service.NewUserService(users, tokens, zap.NewExample()), users, tokens
}

func TestUserService_RegisterMember(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("ok", func(t *testing.T) {
		svc, users, _ := newUserService(t)
		users.EXPECT().GetUserByUsername(ctx, "thor").Return(model.User{}, errs.ErrNotFound)
		users.EXPECT().CreateUser(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, u model.User) error {
				require.Equal(t, "thor", u.Username)
				require.Equal(t, model.RoleMember, u.Role)
				require.Equal(t, 3, u.MembershipLevel)
				require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("mjolnir")))
				return nil
			})

		msg, err := svc.RegisterMember(ctx, model.NewMemberRequest{
			Username:        "Thor",
			FirstName:       "Thor",
			LastName:        "Odinson",
			Password:        "mjolnir",
			MembershipLevel: intPtr(3),
		})
		require.NoError(t, err)
		require.Equal(t, "Successfully created member: thor!", msg)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc, _, _ := newUserService(t)
		_, err := svc.RegisterMember(ctx, model.NewMemberRequest{Username: "thor"})
		require.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("membership level must be positive", func(t *testing.T) {
		svc, _, _ := newUserService(t)
		_, err := svc.RegisterMember(ctx, model.NewMemberRequest{
			Username: "thor", FirstName: "Thor", LastName: "Odinson",
			Password: "mjolnir", MembershipLevel: intPtr(0),
		})
		require.ErrorIs(t, err, errs.ErrRange)
	})

	t.Run("duplicate username is case-insensitive", func(t *testing.T) {
		svc, users, _ := newUserService(t)
		users.EXPECT().GetUserByUsername(ctx, "thor").Return(model.User{Username: "thor"}, nil)

		_, err := svc.RegisterMember(ctx, model.NewMemberRequest{
			Username: "Thor", FirstName: "Thor", LastName: "Odinson",
			Password: "mjolnir", MembershipLevel: intPtr(1),
		})
		require.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestUserService_RegisterLibrarian(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, users, _ := newUserService(t)
	users.EXPECT().GetUserByUsername(ctx, "frigga").Return(model.User{}, errs.ErrNotFound)
	users.EXPECT().CreateUser(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, u model.User) error {
			require.Equal(t, model.RoleLibrarian, u.Role)
			require.Equal(t, 0, u.MembershipLevel)
			return nil
		})

	msg, err := svc.RegisterLibrarian(ctx, model.NewLibrarianRequest{
		Username: "Frigga", FirstName: "Frigga", LastName: "Allmother", Password: "secret",
	})
	require.NoError(t, err)
	require.Equal(t, "Successfully created librarian: frigga!", msg)
}

func TestUserService_ChangePassword(t *testing.T) {
	t.Parallel()
	hash, err := bcrypt.GenerateFromPassword([]byte("old-pass"), bcrypt.DefaultCost)
	require.NoError(t, err)
	ctx := auth.SetAuthContext(context.Background(), "thor", model.RoleMember)
	stored := model.User{ID: "u1", Username: "thor", Password: string(hash), Role: model.RoleMember}

	t.Run("ok", func(t *testing.T) {
		svc, users, _ := newUserService(t)
		users.EXPECT().GetUserByUsername(ctx, "thor").Return(stored, nil)
		users.EXPECT().BorrowedBooks(ctx, "u1").Return(nil, nil)
		users.EXPECT().UpdateUser(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, u model.User) error {
				require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("new-pass")))
				return nil
			})

		msg, err := svc.ChangePassword(ctx, model.UpdateUserPasswordRequest{
			CurrentPassword: "old-pass", NewPassword: "new-pass",
		})
		require.NoError(t, err)
		require.Equal(t, "User thor has successfully changed password", msg)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, users, _ := newUserService(t)
		users.EXPECT().GetUserByUsername(ctx, "thor").Return(stored, nil)
		users.EXPECT().BorrowedBooks(ctx, "u1").Return(nil, nil)

		_, err := svc.ChangePassword(ctx, model.UpdateUserPasswordRequest{
			CurrentPassword: "not-it", NewPassword: "new-pass",
		})
		require.ErrorIs(t, err, errs.ErrWrongPassword)
	})

	t.Run("blank fields", func(t *testing.T) {
		svc, _, _ := newUserService(t)
		_, err := svc.ChangePassword(ctx, model.UpdateUserPasswordRequest{})
		require.ErrorIs(t, err, errs.ErrValidation)
	})
}

func TestUserService_DeleteMember(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("ok deletes tokens then user", func(t *testing.T) {
		svc, users, tokens := newUserService(t)
		users.EXPECT().GetUserByID(ctx, "u1").Return(model.User{ID: "u1", Username: "thor", Role: model.RoleMember}, nil)
		users.EXPECT().BorrowedBooks(ctx, "u1").Return(nil, nil)
		tokens.EXPECT().DeleteTokensByUsername(ctx, "thor").Return(nil)
		users.EXPECT().DeleteUser(ctx, "u1").Return(nil)

		msg, err := svc.DeleteMember(ctx, "u1")
		require.NoError(t, err)
		require.Equal(t, "Member with id u1 has been deleted successfully", msg)
	})

	t.Run("librarian cannot be deleted", func(t *testing.T) {
		svc, users, _ := newUserService(t)
		users.EXPECT().GetUserByID(ctx, "u1").Return(model.User{ID: "u1", Role: model.RoleLibrarian}, nil)
		users.EXPECT().BorrowedBooks(ctx, "u1").Return(nil, nil)

		_, err := svc.DeleteMember(ctx, "u1")
		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("borrowed books block deletion", func(t *testing.T) {
		svc, users, _ := newUserService(t)
		users.EXPECT().GetUserByID(ctx, "u1").Return(model.User{ID: "u1", Role: model.RoleMember}, nil)
		users.EXPECT().BorrowedBooks(ctx, "u1").Return([]model.Book{{ID: "b1"}}, nil)

		_, err := svc.DeleteMember(ctx, "u1")
		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("not found", func(t *testing.T) {
		svc, users, _ := newUserService(t)
		users.EXPECT().GetUserByID(ctx, "nope").Return(model.User{}, errs.ErrNotFound)

		_, err := svc.DeleteMember(ctx, "nope")
		require.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestUserService_DeleteSelf(t *testing.T) {
	t.Parallel()
	ctx := auth.SetAuthContext(context.Background(), "thor", model.RoleMember)
	ctx = auth.SetToken(ctx, "the-token")

	t.Run("ok", func(t *testing.T) {
		svc, users, tokens := newUserService(t)
		users.EXPECT().GetUserByUsername(ctx, "thor").Return(model.User{ID: "u1", Username: "thor", Role: model.RoleMember}, nil)
		users.EXPECT().BorrowedBooks(ctx, "u1").Return(nil, nil)
		tokens.EXPECT().DeleteToken(ctx, "the-token").Return(nil)
		users.EXPECT().DeleteUser(ctx, "u1").Return(nil)

		msg, err := svc.DeleteSelf(ctx)
		require.NoError(t, err)
		require.Equal(t, "thor's account has been deleted", msg)
	})

	t.Run("borrowed books block self-delete", func(t *testing.T) {
		svc, users, _ := newUserService(t)
		users.EXPECT().GetUserByUsername(ctx, "thor").Return(model.User{ID: "u1", Username: "thor", Role: model.RoleMember}, nil)
		users.EXPECT().BorrowedBooks(ctx, "u1").Return([]model.Book{{ID: "b1"}}, nil)

		_, err := svc.DeleteSelf(ctx)
		require.ErrorIs(t, err, errs.ErrConflict)
	})
}

func TestUserService_UpdateMember(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("membership level below borrow count", func(t *testing.T) {
		svc, users, _ := newUserService(t)
		users.EXPECT().GetUserByID(ctx, "u1").Return(model.User{ID: "u1", Role: model.RoleMember, MembershipLevel: 3}, nil)
		users.EXPECT().BorrowedBooks(ctx, "u1").Return([]model.Book{{ID: "b1"}, {ID: "b2"}}, nil)

		_, err := svc.UpdateMember(ctx, "u1", model.UpdateMemberRequest{MembershipLevel: intPtr(1)})
		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("applies only provided fields", func(t *testing.T) {
		svc, users, _ := newUserService(t)
		users.EXPECT().GetUserByID(ctx, "u1").
			Return(model.User{ID: "u1", Role: model.RoleMember, FirstName: "Thor", LastName: "Odinson", MembershipLevel: 2}, nil)
		users.EXPECT().BorrowedBooks(ctx, "u1").Return(nil, nil)
		users.EXPECT().UpdateUser(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, u model.User) error {
				require.Equal(t, "Bruce", u.FirstName)
				require.Equal(t, "Odinson", u.LastName)
				require.Equal(t, 2, u.MembershipLevel)
				return nil
			})

		updated, err := svc.UpdateMember(ctx, "u1", model.UpdateMemberRequest{FirstName: "Bruce"})
		require.NoError(t, err)
		require.Equal(t, "Bruce", updated.FirstName)
	})

	t.Run("librarian cannot be updated", func(t *testing.T) {
		svc, users, _ := newUserService(t)
		users.EXPECT().GetUserByID(ctx, "u1").Return(model.User{ID: "u1", Role: model.RoleLibrarian}, nil)
		users.EXPECT().BorrowedBooks(ctx, "u1").Return(nil, nil)

		_, err := svc.UpdateMember(ctx, "u1", model.UpdateMemberRequest{FirstName: "X"})
		require.ErrorIs(t, err, errs.ErrConflict)
	})
}
