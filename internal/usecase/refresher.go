package usecase

import (
	"context"
	"fmt"
	"time"

	"ConfluenceBoard/internal/domain/models"
	domrepo "ConfluenceBoard/internal/domain/repository"
	applogger "ConfluenceBoard/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Broadcaster delivers a fresh table to connected dashboard clients.
type Broadcaster interface {
	Broadcast(results []models.ConfluenceResult)
}

// Refresher runs the scan on a cron schedule so the response cache stays
// warm and websocket clients receive updates without polling.
type Refresher struct {
	cron        *cron.Cron
	scanner     Scanner
	store       *CachedScanner
	broadcaster Broadcaster
	publisher   domrepo.Publisher
	schedule    string
	timeout     time.Duration
	logger      *applogger.Logger
}

func NewRefresher(
	scanner Scanner,
	store *CachedScanner,
	broadcaster Broadcaster,
	publisher domrepo.Publisher,
	schedule string,
	timeout time.Duration,
	logger *applogger.Logger,
) *Refresher {
	return &Refresher{
		cron:        cron.New(),
		scanner:     scanner,
		store:       store,
		broadcaster: broadcaster,
		publisher:   publisher,
		schedule:    schedule,
		timeout:     timeout,
		logger:      logger,
	}
}

// Register installs the refresh job. An empty schedule disables the
// refresher without error so deployments can opt out.
func (r *Refresher) Register() error {
	if r.schedule == "" {
		return nil
	}
	if _, err := r.cron.AddFunc(r.schedule, r.refresh); err != nil {
		return fmt.Errorf("register refresh job: %w", err)
	}
	return nil
}

func (r *Refresher) Start() {
	if r.schedule != "" {
		r.cron.Start()
	}
}

func (r *Refresher) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

// RunNow executes one refresh immediately, used at startup to warm the
// cache before the first request arrives.
func (r *Refresher) RunNow() {
	r.refresh()
}

func (r *Refresher) refresh() {
	ctx := context.Background()
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	results, err := r.scanner.Scan(ctx)
	if err != nil {
		if r.logger != nil {
			r.logger.Warn("background refresh failed", applogger.Error(err))
		}
		return
	}

	if r.store != nil {
		r.store.Store(ctx, results)
	}
	if r.broadcaster != nil {
		r.broadcaster.Broadcast(results)
	}
	if r.publisher != nil {
		if err := r.publisher.PublishScan(ctx, results); err != nil && r.logger != nil {
			r.logger.Warn("scan publish failed", applogger.Error(err))
		}
	}
}
