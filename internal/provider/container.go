package provider

import (
	"github.com/wellpulse/internal/config"
	"github.com/wellpulse/internal/logger"
	"github.com/wellpulse/internal/models"
	"github.com/wellpulse/internal/queue"
	"github.com/wellpulse/internal/repository"
	"github.com/wellpulse/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo      repository.AdminRepository
	AssessmentRepo repository.AssessmentRepository

	// Services
	AuthService       *service.AuthService
	EmailService      *service.EmailService
	AssessmentService *service.AssessmentService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.AssessmentRepo = repository.NewAssessmentRepository(db)
}

func (c *Container) initServices() {
	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo, c.QueueClient, c.EmailService)
	c.AssessmentService = service.NewAssessmentService(c.Config, c.AssessmentRepo)
}

// Close 释放容器持有的资源
func (c *Container) Close() {
	if c == nil {
		return
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
}
