package domain

import "time"

// Country is a reference aggregate resolved by its ISO-style code.
type Country struct {
	ID          int64
	Code        string
	Name        string
	EnglishName string
}

// Client is a trading partner identified by its client code.
// Clients form a one-level parent/child tree: a child carries its
// parent's ID, and grandchildren are not allowed.
type Client struct {
	ID            int64
	Code          string
	ParentID      *int64
	CountryID     int64
	Name          string
	Address       string
	ContactNumber string
	Email         string
	Currency      Currency
	CreatedAt     time.Time
	DeletedAt     *time.Time
}

// NewClient creates a top-level (parent) client.
func NewClient(code string, country *Country, name, address, contactNumber, email string, currency Currency) *Client {
	return &Client{
		Code:          code,
		CountryID:     country.ID,
		Name:          name,
		Address:       address,
		ContactNumber: contactNumber,
		Email:         email,
		Currency:      currency,
		CreatedAt:     time.Now(),
	}
}

// NewChildClient creates a client attached to a parent.
func NewChildClient(code string, parent *Client, country *Country, name, address, contactNumber, email string, currency Currency) *Client {
	c := NewClient(code, country, name, address, contactNumber, email, currency)
	parentID := parent.ID
	c.ParentID = &parentID
	return c
}

// Deleted reports whether the client is soft-deleted.
func (c *Client) Deleted() bool { return c.DeletedAt != nil }
