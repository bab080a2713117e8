package partner

import (
	"time"

	"github.com/eightysix/analytics/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// CreateCustomerRequest represents a request to create a customer
type CreateCustomerRequest struct {
	SupplierID    int64      `json:"supplier_id" binding:"required,min=1"`
	Code          string     `json:"code" binding:"required,min=1,max=100"`
	Title         string     `json:"title" binding:"max=255"`
	Address       string     `json:"address" binding:"max=2000"`
	Currency      string     `json:"currency" binding:"required,min=1,max=10"`
	LastDelivered *time.Time `json:"last_delivered"`
	Growth        *float64   `json:"growth"`
}

// UpdateCustomerRequest represents a partial customer update. Omitted fields
// keep their stored value; the derived month/threatened values cannot be set.
type UpdateCustomerRequest struct {
	SupplierID    *int64     `json:"supplier_id" binding:"omitempty,min=1"`
	Code          *string    `json:"code" binding:"omitempty,min=1,max=100"`
	Title         *string    `json:"title" binding:"omitempty,max=255"`
	Address       *string    `json:"address" binding:"omitempty,max=2000"`
	Currency      *string    `json:"currency" binding:"omitempty,min=1,max=10"`
	LastDelivered *time.Time `json:"last_delivered"`
	Growth        *float64   `json:"growth"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID              int64           `json:"id"`
	SupplierID      int64           `json:"supplier_id"`
	Code            string          `json:"code"`
	Title           string          `json:"title"`
	Address         string          `json:"address"`
	Currency        string          `json:"currency"`
	LastDelivered   *time.Time      `json:"last_delivered"`
	MonthValue      decimal.Decimal `json:"month_value"`
	ThreatenedValue decimal.Decimal `json:"threatened_value"`
	Growth          float64         `json:"growth"`
	Modified        time.Time       `json:"modified"`
	SupplierCode    string          `json:"supplier_code,omitempty"`
	SupplierTitle   string          `json:"supplier_title,omitempty"`
	Subscribed      *bool           `json:"subscribed,omitempty"`
}

// SubscribedCustomerResponse is a followed customer with its latest note
type SubscribedCustomerResponse struct {
	CustomerResponse
	LastNote          *string    `json:"last_note"`
	LastNoteTimestamp *time.Time `json:"last_note_timestamp"`
	LastNoteBy        *string    `json:"last_note_by"`
}

// ToCustomerResponse converts a domain Customer to a response
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:              c.ID,
		SupplierID:      c.SupplierID,
		Code:            c.Code,
		Title:           c.Title,
		Address:         c.Address,
		Currency:        c.Currency,
		LastDelivered:   c.LastDelivered,
		MonthValue:      c.MonthValue,
		ThreatenedValue: c.ThreatenedValue,
		Growth:          c.Growth,
		Modified:        c.Modified,
	}
}

// ToCustomerViewResponse converts a CustomerView; withFlag exposes the subscription flag
func ToCustomerViewResponse(v partner.CustomerView, withFlag bool) CustomerResponse {
	resp := ToCustomerResponse(&v.Customer)
	resp.SupplierCode = v.SupplierCode
	resp.SupplierTitle = v.SupplierTitle
	if withFlag {
		subscribed := v.Subscribed
		resp.Subscribed = &subscribed
	}
	return resp
}

// CreateSupplierRequest represents a request to create a supplier
type CreateSupplierRequest struct {
	Code  string `json:"code" binding:"required,min=1,max=100"`
	Title string `json:"title" binding:"required,min=1,max=255"`
}

// UpdateSupplierRequest represents a partial supplier update
type UpdateSupplierRequest struct {
	Code  *string `json:"code" binding:"omitempty,min=1,max=100"`
	Title *string `json:"title" binding:"omitempty,min=1,max=255"`
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID    int64  `json:"id"`
	Code  string `json:"code"`
	Title string `json:"title"`
}

// ToSupplierResponse converts a domain Supplier to a response
func ToSupplierResponse(s *partner.Supplier) SupplierResponse {
	return SupplierResponse{ID: s.ID, Code: s.Code, Title: s.Title}
}

// CreateSupplierUserRequest creates a user and links it to a supplier.
// supplier_id is checked by the service so a missing value maps to NO_SUPPLIER_ID.
type CreateSupplierUserRequest struct {
	Email      string `json:"email" binding:"required,email,max=255"`
	Phone      string `json:"phone" binding:"max=50"`
	Name       string `json:"name" binding:"max=255"`
	SupplierID int64  `json:"supplier_id"`
}

// UpdateSupplierUserRequest edits the contact data of a linked user
type UpdateSupplierUserRequest struct {
	Name  *string `json:"name" binding:"omitempty,max=255"`
	Phone *string `json:"phone" binding:"omitempty,max=50"`
}

// UserSupplierRequest names a user by email and a supplier by code
type UserSupplierRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Supplier string `json:"supplier" binding:"required"`
}

// SupplierUserResponse represents a staff link in API responses
type SupplierUserResponse struct {
	ID            int64  `json:"id"`
	UserID        int64  `json:"user_id"`
	SupplierID    int64  `json:"supplier_id"`
	Name          string `json:"name,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Role          string `json:"role,omitempty"`
	SupplierCode  string `json:"supplier_code,omitempty"`
	SupplierTitle string `json:"supplier_title,omitempty"`
}

// ToSupplierUserResponse converts a SupplierUserView to a response
func ToSupplierUserResponse(v partner.SupplierUserView) SupplierUserResponse {
	return SupplierUserResponse(v)
}

// DropUserSupplierResponse reports how many rows an unlink removed
type DropUserSupplierResponse struct {
	Customers int64 `json:"customers"`
	Suppliers int64 `json:"suppliers"`
}

// NoteRequest carries a note body
type NoteRequest struct {
	Note string `json:"note" binding:"required,max=10000"`
}

// NoteResponse represents a note in API responses
type NoteResponse struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	CustomerID int64     `json:"customer_id"`
	Note       string    `json:"note"`
	Timestamp  time.Time `json:"timestamp"`
	Customer   struct {
		Code  string `json:"code"`
		Title string `json:"title"`
	} `json:"customer"`
	User struct {
		Name string `json:"name"`
	} `json:"user"`
}

// ToNoteResponse converts a NoteView to a response
func ToNoteResponse(v partner.NoteView) NoteResponse {
	resp := NoteResponse{
		ID:         v.ID,
		UserID:     v.UserID,
		CustomerID: v.CustomerID,
		Note:       v.Text,
		Timestamp:  v.Timestamp,
	}
	resp.Customer.Code = v.CustomerCode
	resp.Customer.Title = v.CustomerTitle
	resp.User.Name = v.AuthorName
	return resp
}

// ToSubscribedCustomerResponse converts a followed customer to a response
func ToSubscribedCustomerResponse(c partner.SubscribedCustomer) SubscribedCustomerResponse {
	return SubscribedCustomerResponse{
		CustomerResponse:  ToCustomerResponse(&c.Customer),
		LastNote:          c.LastNote,
		LastNoteTimestamp: c.LastNoteTimestamp,
		LastNoteBy:        c.LastNoteBy,
	}
}
