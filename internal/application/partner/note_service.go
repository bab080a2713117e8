package partner

import (
	"context"

	"github.com/eightysix/analytics/internal/domain/partner"
	"github.com/eightysix/analytics/internal/domain/shared"
)

// NoteService manages an actor's notes on followed customers
type NoteService struct {
	noteRepo     partner.NoteRepository
	customerRepo partner.CustomerRepository
}

// NewNoteService creates a new NoteService
func NewNoteService(noteRepo partner.NoteRepository, customerRepo partner.CustomerRepository) *NoteService {
	return &NoteService{noteRepo: noteRepo, customerRepo: customerRepo}
}

// List lists the actor's notes on a customer
func (s *NoteService) List(ctx context.Context, actorID, customerID int64, params shared.ListParams) ([]NoteResponse, int64, error) {
	if _, err := s.customerRepo.GetByIDForSupplier(ctx, actorID, customerID); err != nil {
		return nil, 0, err
	}
	views, err := s.noteRepo.ListForCustomer(ctx, actorID, customerID, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.noteRepo.CountForCustomer(ctx, actorID, customerID, params)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]NoteResponse, len(views))
	for i := range views {
		responses[i] = ToNoteResponse(views[i])
	}
	return responses, total, nil
}

// Create adds a note to a customer the actor follows
func (s *NoteService) Create(ctx context.Context, actorID, customerID int64, req NoteRequest) (*NoteResponse, error) {
	if _, err := s.customerRepo.GetByIDForSupplier(ctx, actorID, customerID); err != nil {
		return nil, err
	}
	note, err := partner.NewNote(actorID, customerID, req.Note)
	if err != nil {
		return nil, err
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, err
	}
	return s.get(ctx, note.ID)
}

// Update rewrites one of the actor's notes
func (s *NoteService) Update(ctx context.Context, actorID, id int64, req NoteRequest) (*NoteResponse, error) {
	note, err := s.noteRepo.GetByIDForAuthor(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	note.Text = req.Note
	if err := note.Validate(); err != nil {
		return nil, err
	}
	if err := s.noteRepo.Update(ctx, note); err != nil {
		return nil, err
	}
	return s.get(ctx, id)
}

// Delete removes one of the actor's notes
func (s *NoteService) Delete(ctx context.Context, actorID, id int64) error {
	note, err := s.noteRepo.GetByIDForAuthor(ctx, actorID, id)
	if err != nil {
		return err
	}
	return s.noteRepo.Delete(ctx, note.ID)
}

func (s *NoteService) get(ctx context.Context, id int64) (*NoteResponse, error) {
	view, err := s.noteRepo.GetViewByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToNoteResponse(*view)
	return &resp, nil
}
