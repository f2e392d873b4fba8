package model

import "time"

const (
	RoleLibrarian = "LIBRARIAN"
	RoleMember    = "MEMBER"
)

type BookStatus string

const (
	StatusAvailable    BookStatus = "AVAILABLE"
	StatusBorrowed     BookStatus = "BORROWED"
	StatusDiscontinued BookStatus = "DISCONTINUED"
)

type User struct {
	ID              string `json:"id" db:"id"`
	Username        string `json:"username" db:"username"`
	FirstName       string `json:"firstName" db:"first_name"`
	LastName        string `json:"lastName" db:"last_name"`
	Password        string `json:"-" db:"password"`
	Role            string `json:"role" db:"role"`
	MembershipLevel int    `json:"membershipLevel" db:"membership_level"`
	Locked          bool   `json:"locked" db:"locked"`
	Enabled         bool   `json:"enabled" db:"enabled"`

	// Filled on demand from the inverse side of books.borrower_id.
	BorrowedBooks []Book `json:"borrowedBooks" db:"-"`
}

type Book struct {
	ID            string     `json:"id" db:"id"`
	Title         string     `json:"title" db:"title"`
	Author        string     `json:"author" db:"author"`
	NumberOfPages int        `json:"numberOfPages" db:"number_of_pages"`
	Isbn          string     `json:"isbn" db:"isbn"`
	Status        BookStatus `json:"status" db:"status"`
	BorrowerID    *string    `json:"borrowerId" db:"borrower_id"`
}

// Token is one active session. ID is the signed JWT itself, so logout can
// revoke by the exact credential the client presents.
type Token struct {
	ID        string    `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type NewMemberRequest struct {
	Username        string `json:"username"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Password        string `json:"password"`
	MembershipLevel *int   `json:"membershipLevel"`
}

type NewLibrarianRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

type UpdateUserPasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type UpdateMemberRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	MembershipLevel *int   `json:"membershipLevel"`
}

type NewBookRequest struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	NumberOfPages *int   `json:"numberOfPages"`
	Isbn          string `json:"isbn"`
}

type UpdateBookRequest struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	NumberOfPages *int   `json:"numberOfPages"`
	Isbn          string `json:"isbn"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
