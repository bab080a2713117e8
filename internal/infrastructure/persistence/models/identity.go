package models

import (
	"time"

	"github.com/eightysix/analytics/internal/domain/access"
	"github.com/eightysix/analytics/internal/domain/identity"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	IDModel
	Name             string  `gorm:"type:varchar(255)"`
	Email            string  `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_email"`
	Phone            string  `gorm:"type:varchar(50)"`
	ExternalUsername *string `gorm:"type:varchar(255);uniqueIndex:idx_users_external_username"`
	Role             string  `gorm:"type:varchar(20);not null;default:'supplier'"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
// ExternalUsername is nullable so users without a provider subject do not collide.
// An unrecognized stored role maps to RoleUnknown, which the policy never grants.
func (m *UserModel) ToDomain() *identity.User {
	role, _ := access.ParseRole(m.Role)
	u := &identity.User{
		ID:    m.ID,
		Name:  m.Name,
		Email: m.Email,
		Phone: m.Phone,
		Role:  role,
	}
	if m.ExternalUsername != nil {
		u.ExternalUsername = *m.ExternalUsername
	}
	return u
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.ID = u.ID
	m.Name = u.Name
	m.Email = u.Email
	m.Phone = u.Phone
	m.ExternalUsername = nil
	if u.ExternalUsername != "" {
		ext := u.ExternalUsername
		m.ExternalUsername = &ext
	}
	m.Role = u.Role.String()
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// LocalIdentityModel stores credentials for the development identity provider.
type LocalIdentityModel struct {
	Email            string `gorm:"type:varchar(255);primaryKey"`
	PasswordHash     string `gorm:"type:varchar(255);not null"`
	Subject          string `gorm:"type:varchar(255);not null;uniqueIndex:idx_local_identities_subject"`
	GroupName        string `gorm:"type:varchar(50);not null"`
	Phone            string `gorm:"type:varchar(50)"`
	Name             string `gorm:"type:varchar(255)"`
	Confirmed        bool   `gorm:"not null;default:false"`
	VerificationCode string `gorm:"type:varchar(20)"`
	ResetCode        string `gorm:"type:varchar(20)"`
	FailedAttempts   int    `gorm:"not null;default:0"`
	LockedUntil      *time.Time
	SessionsRevoked  *time.Time
	CreatedAt        time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LocalIdentityModel) TableName() string {
	return "local_identities"
}
