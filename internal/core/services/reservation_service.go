package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ReservationJanitor releases expired loan profile reservations on a
// schedule. A reservation is expired once its reserved_until has passed.
type ReservationJanitor struct {
	profiles LoanProfileRepository
	spec     string
	cron     *cron.Cron
	log      *zap.Logger
}

// NewReservationJanitor creates a janitor running on the given cron spec,
// e.g. "*/10 * * * *" for every ten minutes.
func NewReservationJanitor(profiles LoanProfileRepository, spec string, log *zap.Logger) *ReservationJanitor {
	return &ReservationJanitor{
		profiles: profiles,
		spec:     spec,
		cron:     cron.New(),
		log:      log,
	}
}

// Start schedules the expiry scan and runs one immediately to catch up after
// downtime.
func (j *ReservationJanitor) Start() error {
	if _, err := j.cron.AddFunc(j.spec, j.releaseExpired); err != nil {
		return err
	}
	j.cron.Start()
	go j.releaseExpired()
	j.log.Info("reservation janitor started", zap.String("spec", j.spec))
	return nil
}

// Stop halts the schedule and waits for a running scan to finish.
func (j *ReservationJanitor) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
	j.log.Info("reservation janitor stopped")
}

func (j *ReservationJanitor) releaseExpired() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	released, err := j.profiles.ReleaseExpired(ctx, time.Now().UTC())
	if err != nil {
		j.log.Error("reservation expiry scan failed", zap.Error(err))
		return
	}
	if released > 0 {
		j.log.Info("released expired reservations", zap.Int64("count", released))
	}
}
