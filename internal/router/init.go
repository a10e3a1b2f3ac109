package router

import (
	"github.com/farbari/farbari-api/internal/application"
	"github.com/farbari/farbari-api/internal/container"
	repo "github.com/farbari/farbari-api/internal/domain/repository"
	pginfra "github.com/farbari/farbari-api/internal/infrastructure/postgres"
	handlers "github.com/farbari/farbari-api/internal/interface/http"
	"github.com/farbari/farbari-api/internal/router/modules"
)

type Deps struct {
	Users     repo.UserRepository
	Posts     repo.PostRepository
	Interests repo.InterestRepository

	AuthSvc     *application.AuthService
	UserSvc     *application.UserService
	PostSvc     *application.PostService
	InterestSvc *application.InterestService
}

func buildDeps() Deps {
	cfg := container.GetConfig()
	pool := container.GetPGPool()
	logger := container.GetLogger()

	users := pginfra.NewUserRepository(pool)
	posts := pginfra.NewPostRepository(pool)
	interests := pginfra.NewInterestRepository(pool)

	// RabbitPublisher is nil when the broker is not configured; services
	// treat that as "mail disabled".
	var pub application.Publisher
	if p := container.GetRabbitPub(); p != nil {
		pub = p
	}

	authSvc := application.NewAuthService(users, container.GetHasher(), container.GetJWT(), pub, logger, application.AuthConfig{
		VerifyTokenTTL:   cfg.VerifyTokenTTL,
		ResetTokenTTL:    cfg.ResetTokenTTL,
		VerifyEmailURL:   cfg.VerifyEmailURL,
		ResetPasswordURL: cfg.ResetPasswordURL,
		MailEnabled:      cfg.MailSendEnabled,
	})
	userSvc := application.NewUserService(users, container.GetGCS(), cfg.GCSBucket, logger)
	postSvc := application.NewPostService(posts, users, container.GetES(), cfg.ESPostsIndex, container.GetRedis(), container.GetGCS(), cfg.GCSBucket, logger)
	interestSvc := application.NewInterestService(interests, posts, users, pub, logger, cfg.MailSendEnabled)

	return Deps{
		Users:       users,
		Posts:       posts,
		Interests:   interests,
		AuthSvc:     authSvc,
		UserSvc:     userSvc,
		PostSvc:     postSvc,
		InterestSvc: interestSvc,
	}
}

// InitModules initializes all application modules and registers them with the
// router registry. Call once during startup.
func InitModules(r *Registry) {
	deps := buildDeps()
	logger := container.GetLogger()

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(deps.AuthSvc, deps.UserSvc, logger), deps.Users))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(deps.UserSvc, logger), deps.Users))
	r.Add(modules.NewPostModule(handlers.NewPostHandler(deps.PostSvc, logger), deps.Users))
	r.Add(modules.NewInterestModule(handlers.NewInterestHandler(deps.InterestSvc, logger), deps.Users))
}
