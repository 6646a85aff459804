package service

import (
	"github.com/abarros/contact-sync/internal/config"
	"github.com/abarros/contact-sync/internal/repository"
)

type Services struct {
	Auth    *AuthService
	Contact *ContactService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, notifier ChangeNotifier) *Services {
	return &Services{
		Auth:    NewAuthService(repos.User, repos.Session, cfg),
		Contact: NewContactService(repos.Contact, repos.ChangeEvent, notifier),
	}
}
