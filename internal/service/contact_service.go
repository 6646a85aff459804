package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/abarros/contact-sync/internal/domain"
	"github.com/abarros/contact-sync/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ChangeNotifier is told whenever an owner's contact set changed so live
// subscribers receive a fresh snapshot. The websocket hub implements it.
type ChangeNotifier interface {
	ContactsChanged(ownerID uuid.UUID)
}

type ContactService struct {
	contactRepo repository.ContactRepository
	changeRepo  repository.ChangeEventRepository
	notifier    ChangeNotifier
}

func NewContactService(contactRepo repository.ContactRepository, changeRepo repository.ChangeEventRepository, notifier ChangeNotifier) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
		changeRepo:  changeRepo,
		notifier:    notifier,
	}
}

type ContactInput struct {
	Name  string
	Email string
	Phone string
	Age   int
}

func (s *ContactService) Create(ctx context.Context, ownerID uuid.UUID, input ContactInput) (*domain.Contact, error) {
	fields, err := domain.NewContactFields(input.Name, input.Email, input.Phone, input.Age)
	if err != nil {
		return nil, err
	}

	contact := &domain.Contact{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	fields.Apply(contact)

	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, err
	}

	s.recordChange(ctx, ownerID, contact.ID, domain.ChangeActionCreate, &fields)
	s.notifier.ContactsChanged(ownerID)

	return contact, nil
}

func (s *ContactService) Update(ctx context.Context, userID, contactID uuid.UUID, input ContactInput) (*domain.Contact, error) {
	contact, err := s.contactRepo.GetByID(ctx, contactID)
	if err != nil {
		return nil, err
	}
	if contact.OwnerID != userID {
		return nil, domain.ErrNotContactOwner
	}

	fields, err := domain.NewContactFields(input.Name, input.Email, input.Phone, input.Age)
	if err != nil {
		return nil, err
	}

	fields.Apply(contact)
	contact.UpdatedAt = time.Now()

	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return nil, err
	}

	s.recordChange(ctx, userID, contact.ID, domain.ChangeActionUpdate, &fields)
	s.notifier.ContactsChanged(userID)

	return contact, nil
}

func (s *ContactService) Delete(ctx context.Context, userID, contactID uuid.UUID) error {
	contact, err := s.contactRepo.GetByID(ctx, contactID)
	if err != nil {
		return err
	}
	if contact.OwnerID != userID {
		return domain.ErrNotContactOwner
	}

	if err := s.contactRepo.Delete(ctx, contactID); err != nil {
		return err
	}

	s.recordChange(ctx, userID, contactID, domain.ChangeActionDelete, nil)
	s.notifier.ContactsChanged(userID)

	return nil
}

func (s *ContactService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Contact, error) {
	return s.contactRepo.GetByOwnerID(ctx, ownerID)
}

func (s *ContactService) History(ctx context.Context, ownerID uuid.UUID, limit int) ([]*domain.ChangeEvent, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.changeRepo.GetByOwnerID(ctx, ownerID, limit)
}

// recordChange appends to the mutation audit log. Failures are logged and
// otherwise ignored; the write itself already succeeded.
func (s *ContactService) recordChange(ctx context.Context, ownerID, contactID uuid.UUID, action domain.ChangeAction, fields *domain.ContactFields) {
	event := &domain.ChangeEvent{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		ContactID: contactID,
		Action:    action,
		CreatedAt: time.Now(),
	}

	if fields != nil {
		payload, err := json.Marshal(fields)
		if err == nil {
			event.Payload = payload
		}
	}

	if err := s.changeRepo.Create(ctx, event); err != nil {
		log.Warn().Err(err).
			Str("owner_id", ownerID.String()).
			Str("contact_id", contactID.String()).
			Str("action", string(action)).
			Msg("failed to record change event")
	}
}
