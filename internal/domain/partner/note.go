package partner

import (
	"strings"
	"time"

	"github.com/eightysix/analytics/internal/domain/shared"
)

// Note is a free-text annotation on a customer authored by a user.
type Note struct {
	ID         int64
	UserID     int64
	CustomerID int64
	Text       string
	Timestamp  time.Time
}

// NewNote creates a note stamped with the current time.
func NewNote(userID, customerID int64, text string) (*Note, error) {
	n := &Note{UserID: userID, CustomerID: customerID, Text: text, Timestamp: time.Now()}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// Validate checks the note body.
func (n *Note) Validate() error {
	if strings.TrimSpace(n.Text) == "" {
		return shared.NewValidationError(shared.FieldError{Field: "note", Message: "Please, fill note"})
	}
	return nil
}

// NoteView is a note with its author's name and the customer's code and title.
type NoteView struct {
	Note
	AuthorName    string
	CustomerCode  string
	CustomerTitle string
}
