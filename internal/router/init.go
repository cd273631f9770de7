package router

import (
	"github.com/LeeyaD/phonebook-server/internal/application"
	"github.com/LeeyaD/phonebook-server/internal/container"
	handlers "github.com/LeeyaD/phonebook-server/internal/interface/http"
	"github.com/LeeyaD/phonebook-server/internal/interface/middleware"
	"github.com/LeeyaD/phonebook-server/internal/router/modules"
)

type Deps struct {
	Auth     *middleware.Auth
	Contacts *application.ContactService
	Users    *application.UserService
	Reset    *application.ResetService
}

func buildDeps() Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	store := container.GetStore()

	authn := application.NewAuthenticator(container.GetJWT())
	auth := &middleware.Auth{
		Authn:  authn,
		Authz:  application.NewAuthorizer(store.Users),
		Logger: logger,
	}

	contacts := application.NewContactService(store, logger)
	if idx := container.GetContactIndex(); idx != nil {
		contacts.Index = idx
	}

	users := application.NewUserService(store, authn, logger)
	if pub := container.GetRabbitPub(); pub != nil && cfg.MailSendEnabled && cfg.MailAdminAddress != "" {
		users.Notifier = &application.EmailNotifier{Publisher: pub, To: cfg.MailAdminAddress, AppName: cfg.AppName}
	}

	return Deps{
		Auth:     auth,
		Contacts: contacts,
		Users:    users,
		Reset:    &application.ResetService{Store: store},
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	deps := buildDeps()

	r.Add(modules.NewContactModule(handlers.NewContactHandler(deps.Contacts, logger), deps.Auth))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(deps.Users, logger)))
	if cfg.IsTest() {
		r.Add(modules.NewTestingModule(handlers.NewTestingHandler(deps.Reset, logger)))
	}
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
