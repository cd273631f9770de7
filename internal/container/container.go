package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/LeeyaD/phonebook-server/config"
	"github.com/LeeyaD/phonebook-server/internal/domain/repository"
	"github.com/LeeyaD/phonebook-server/internal/infrastructure/search"
	"github.com/LeeyaD/phonebook-server/pkg/helpers"
)

// app-level container to share constructed components across packages.
// Optional components stay nil when their backend is not configured.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	store       repository.Store
	redisClient *redis.Client

	jwtManager   *helpers.JWTManager
	contactIndex *search.ContactIndex
	rabbitPub    *helpers.RabbitPublisher
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config {
	if cfg == nil {
		cfg = config.Load()
	}
	return cfg
}

func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return logger
}

func SetStore(s repository.Store) { store = s }
func GetStore() repository.Store  { return store }

func SetRedis(r *redis.Client) { redisClient = r }
func GetRedis() *redis.Client  { return redisClient }

func SetJWT(m *helpers.JWTManager) { jwtManager = m }
func GetJWT() *helpers.JWTManager {
	if jwtManager == nil {
		c := GetConfig()
		jwtManager = helpers.NewJWTManager(c.JWTSecret, c.JWTTTL)
	}
	return jwtManager
}

func SetContactIndex(i *search.ContactIndex) { contactIndex = i }
func GetContactIndex() *search.ContactIndex  { return contactIndex }

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }

// Reset clears every component. Tests call it between engines.
func Reset() {
	cfg = nil
	logger = nil
	store = repository.Store{}
	redisClient = nil
	jwtManager = nil
	contactIndex = nil
	rabbitPub = nil
}
