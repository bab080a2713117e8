package models

import (
	"time"

	"github.com/eightysix/analytics/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// SupplierModel is the persistence model for the Supplier domain entity.
type SupplierModel struct {
	IDModel
	Title string `gorm:"type:varchar(255);not null"`
	Code  string `gorm:"type:varchar(100);not null;uniqueIndex:idx_suppliers_code"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the persistence model to a domain Supplier entity.
func (m *SupplierModel) ToDomain() *partner.Supplier {
	return &partner.Supplier{ID: m.ID, Title: m.Title, Code: m.Code}
}

// FromDomain populates the persistence model from a domain Supplier entity.
func (m *SupplierModel) FromDomain(s *partner.Supplier) {
	m.ID = s.ID
	m.Title = s.Title
	m.Code = s.Code
}

// SupplierModelFromDomain creates a new persistence model from a domain Supplier entity.
func SupplierModelFromDomain(s *partner.Supplier) *SupplierModel {
	m := &SupplierModel{}
	m.FromDomain(s)
	return m
}

// SupplierUserModel links a user to a supplier's staff.
type SupplierUserModel struct {
	IDModel
	UserID     int64 `gorm:"not null;index"`
	SupplierID int64 `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (SupplierUserModel) TableName() string {
	return "supplier_users"
}

// ToDomain converts the persistence model to a domain SupplierUser.
func (m *SupplierUserModel) ToDomain() *partner.SupplierUser {
	return &partner.SupplierUser{ID: m.ID, UserID: m.UserID, SupplierID: m.SupplierID}
}

// SupplierUserViewRow is the admin listing row joined with users and suppliers.
type SupplierUserViewRow struct {
	ID            int64
	UserID        int64
	SupplierID    int64
	Name          string
	Email         string
	Phone         string
	Role          string
	SupplierCode  string
	SupplierTitle string
}

// ToDomain converts the row to a domain SupplierUserView.
func (r *SupplierUserViewRow) ToDomain() partner.SupplierUserView {
	return partner.SupplierUserView(*r)
}

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	IDModel
	SupplierID      int64           `gorm:"not null;uniqueIndex:idx_customers_supplier_code,priority:1"`
	Code            string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_customers_supplier_code,priority:2"`
	Title           string          `gorm:"type:varchar(255)"`
	Address         string          `gorm:"type:text"`
	Currency        string          `gorm:"type:varchar(10);not null"`
	LastDelivered   *time.Time      `gorm:"column:last_delivered"`
	MonthValue      decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	ThreatenedValue decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0"`
	Growth          float64         `gorm:"not null;default:0"`
	Modified        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		ID:              m.ID,
		SupplierID:      m.SupplierID,
		Code:            m.Code,
		Title:           m.Title,
		Address:         m.Address,
		Currency:        m.Currency,
		LastDelivered:   m.LastDelivered,
		MonthValue:      m.MonthValue,
		ThreatenedValue: m.ThreatenedValue,
		Growth:          m.Growth,
		Modified:        m.Modified,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.ID = c.ID
	m.SupplierID = c.SupplierID
	m.Code = c.Code
	m.Title = c.Title
	m.Address = c.Address
	m.Currency = c.Currency
	m.LastDelivered = c.LastDelivered
	m.MonthValue = c.MonthValue
	m.ThreatenedValue = c.ThreatenedValue
	m.Growth = c.Growth
	m.Modified = c.Modified
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// CustomerViewRow is a customer joined with its supplier and the actor's subscription.
type CustomerViewRow struct {
	CustomerModel
	SupplierCode  string
	SupplierTitle string
	Subscribed    bool
}

// ToDomain converts the row to a domain CustomerView.
func (r *CustomerViewRow) ToDomain() partner.CustomerView {
	return partner.CustomerView{
		Customer:      *r.CustomerModel.ToDomain(),
		SupplierCode:  r.SupplierCode,
		SupplierTitle: r.SupplierTitle,
		Subscribed:    r.Subscribed,
	}
}

// SubscribedCustomerRow is a followed customer with its latest note.
type SubscribedCustomerRow struct {
	CustomerModel
	LastNote          *string
	LastNoteTimestamp *time.Time
	LastNoteBy        *string
}

// ToDomain converts the row to a domain SubscribedCustomer.
func (r *SubscribedCustomerRow) ToDomain() partner.SubscribedCustomer {
	return partner.SubscribedCustomer{
		Customer:          *r.CustomerModel.ToDomain(),
		LastNote:          r.LastNote,
		LastNoteTimestamp: r.LastNoteTimestamp,
		LastNoteBy:        r.LastNoteBy,
	}
}

// CustomerUserModel is a user's subscription to a customer.
type CustomerUserModel struct {
	IDModel
	UserID     int64 `gorm:"not null;uniqueIndex:idx_customer_users_user_customer,priority:1"`
	CustomerID int64 `gorm:"not null;uniqueIndex:idx_customer_users_user_customer,priority:2;index"`
}

// TableName returns the table name for GORM
func (CustomerUserModel) TableName() string {
	return "customer_users"
}

// NoteModel is the persistence model for the Note domain entity.
type NoteModel struct {
	IDModel
	UserID     int64     `gorm:"not null;index"`
	CustomerID int64     `gorm:"not null;index"`
	Note       string    `gorm:"type:text;not null"`
	Timestamp  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (NoteModel) TableName() string {
	return "notes"
}

// ToDomain converts the persistence model to a domain Note entity.
func (m *NoteModel) ToDomain() *partner.Note {
	return &partner.Note{
		ID:         m.ID,
		UserID:     m.UserID,
		CustomerID: m.CustomerID,
		Text:       m.Note,
		Timestamp:  m.Timestamp,
	}
}

// FromDomain populates the persistence model from a domain Note entity.
func (m *NoteModel) FromDomain(n *partner.Note) {
	m.ID = n.ID
	m.UserID = n.UserID
	m.CustomerID = n.CustomerID
	m.Note = n.Text
	m.Timestamp = n.Timestamp
}

// NoteModelFromDomain creates a new persistence model from a domain Note entity.
func NoteModelFromDomain(n *partner.Note) *NoteModel {
	m := &NoteModel{}
	m.FromDomain(n)
	return m
}

// NoteViewRow is a note joined with its author and customer.
type NoteViewRow struct {
	NoteModel
	AuthorName    string
	CustomerCode  string
	CustomerTitle string
}

// ToDomain converts the row to a domain NoteView.
func (r *NoteViewRow) ToDomain() partner.NoteView {
	return partner.NoteView{
		Note:          *r.NoteModel.ToDomain(),
		AuthorName:    r.AuthorName,
		CustomerCode:  r.CustomerCode,
		CustomerTitle: r.CustomerTitle,
	}
}
