package app

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	"deligo-fulfillment/internal/config"
	"deligo-fulfillment/internal/domain"
	"deligo-fulfillment/internal/logx"
	"deligo-fulfillment/internal/metrics"
	"deligo-fulfillment/internal/repository"
	"deligo-fulfillment/internal/service"
	"deligo-fulfillment/internal/service/dispatch"
	"deligo-fulfillment/internal/service/notify"
	"deligo-fulfillment/internal/service/orders"
	"deligo-fulfillment/internal/service/pickup"
	"deligo-fulfillment/internal/service/resolver"
	"deligo-fulfillment/internal/transport/kafka"
)

type operationTimeout time.Duration

func registerService(container *dig.Container) error {
	return provideAll(container,
		func(cfg *config.Config) operationTimeout {
			return operationTimeout(cfg.Workflow.OperationTimeout)
		},
		func(m *metrics.Workflow) service.WorkflowMetrics { return m },
		newFulfillmentRepo,
		repository.NewOrderRepo,
		newEventPublisher,
		notify.NewEmitter,
		newSelector,
		newResolver,
		newPickup,
		func(repo *repository.OrderRepo, timeout operationTimeout) *orders.Service {
			return orders.NewService(repo, time.Duration(timeout))
		},
	)
}

func newFulfillmentRepo(pool *pgxpool.Pool, cfg *config.Config, m *metrics.Workflow) *repository.FulfillmentRepo {
	return repository.NewFulfillmentRepo(pool, repository.TxOptions{
		Isolation:   cfg.Workflow.TxIsolation,
		MaxAttempts: cfg.Workflow.TxMaxAttempts,
	}, m)
}

type publisherOut struct {
	dig.Out

	Producer  *kafka.Producer
	Publisher service.EventPublisher
}

func newEventPublisher(cfg *config.Config, logger logx.Logger) (publisherOut, error) {
	p, err := kafka.NewProducer(logger, cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		return publisherOut{}, err
	}
	if p == nil {
		logger.Info("order events disabled: no kafka brokers configured")
		return publisherOut{Publisher: service.NopPublisher{}}, nil
	}
	return publisherOut{Producer: p, Publisher: p}, nil
}

func newSelector(cfg *config.Config, logger logx.Logger) (*dispatch.Selector, error) {
	policy, err := domain.ParseOfferPolicy(cfg.Workflow.OfferPolicy)
	if err != nil {
		return nil, err
	}
	return dispatch.NewSelector(policy, cfg.Workflow.CandidateLimit, logger), nil
}

type workflowIn struct {
	dig.In

	Repo     *repository.FulfillmentRepo
	Selector *dispatch.Selector
	Emitter  *notify.Emitter
	Events   service.EventPublisher
	Metrics  service.WorkflowMetrics
	Logger   logx.Logger
	Timeout  operationTimeout
}

func newResolver(in workflowIn) *resolver.Service {
	return resolver.NewService(resolver.Deps{
		Repo:     in.Repo,
		Selector: in.Selector,
		Notifier: in.Emitter,
		Events:   in.Events,
		Metrics:  in.Metrics,
		Logger:   in.Logger,
	}, time.Duration(in.Timeout))
}

func newPickup(in workflowIn) *pickup.Service {
	return pickup.NewService(in.Repo, in.Emitter, in.Events, in.Metrics, time.Duration(in.Timeout), in.Logger)
}
