package background

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"

	"staffhub/internal/tenantdb"
)

const (
	sweepInterval = 5 * time.Minute
	pingTimeout   = 5 * time.Second
)

// JobScheduler runs the registry health sweep. Cached tenant handles are
// never evicted on the request path; this sweep pings each one and evicts
// the stale, so the next request for that tenant reconstructs its handle.
type JobScheduler struct {
	scheduler gocron.Scheduler
	registry  *tenantdb.Registry
	log       zerolog.Logger
}

func NewJobScheduler(registry *tenantdb.Registry, log zerolog.Logger) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler: scheduler,
		registry:  registry,
		log:       log,
	}

	if _, err := scheduler.NewJob(
		gocron.DurationJob(sweepInterval),
		gocron.NewTask(js.sweepRegistry),
	); err != nil {
		return nil, err
	}

	return js, nil
}

func (js *JobScheduler) Start() {
	js.log.Info().Dur("interval", sweepInterval).Msg("starting registry health sweep")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) sweepRegistry() {
	for tenantID, conn := range js.registry.Snapshot() {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		err := conn.Ping(ctx)
		cancel()

		if err != nil {
			js.log.Warn().Err(err).Str("tenant", tenantID).Msg("stale tenant handle, evicting")
			js.registry.Evict(tenantID)
		}
	}
}
