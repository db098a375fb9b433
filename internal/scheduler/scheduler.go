// Package scheduler runs the periodic maintenance jobs of the server.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/craftmatrix/savetrack-api/internal/backup"
	"github.com/craftmatrix/savetrack-api/internal/config"
	"github.com/craftmatrix/savetrack-api/internal/services"
)

const jobTimeout = 10 * time.Minute

type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
}

type Scheduler struct {
	cron *cron.Cron
}

// New registers jobs on a fresh cron instance. Nothing runs until Start.
func New(jobs ...Job) (*Scheduler, error) {
	c := cron.New()
	for _, j := range jobs {
		j := j
		if _, err := c.AddFunc(j.Spec, func() { run(j) }); err != nil {
			return nil, fmt.Errorf("scheduling %s (%q): %w", j.Name, j.Spec, err)
		}
		log.Info().Str("job", j.Name).Str("spec", j.Spec).Msg("job scheduled")
	}
	return &Scheduler{cron: c}, nil
}

func run(j Job) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	start := time.Now()
	if err := j.Run(ctx); err != nil {
		log.Error().Err(err).Str("job", j.Name).Msg("job failed")
		return
	}
	log.Debug().Str("job", j.Name).Dur("took", time.Since(start)).Msg("job finished")
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() { <-s.cron.Stop().Done() }

func (s *Scheduler) Len() int { return len(s.cron.Entries()) }

// Jobs returns the hourly chart-cache purge and, when cfg has a backup
// schedule, the backup job.
func Jobs(svc *services.Service, cfg *config.Config) []Job {
	jobs := []Job{{
		Name: "purge-chart-cache",
		Spec: "@hourly",
		Run: func(ctx context.Context) error {
			n, err := svc.PurgeExpiredCharts(ctx)
			if err != nil {
				return err
			}
			if n > 0 {
				log.Info().Int("removed", n).Msg("expired charts purged")
			}
			return nil
		},
	}}
	if cfg.BackupSchedule != "" {
		jobs = append(jobs, Job{
			Name: "backup",
			Spec: cfg.BackupSchedule,
			Run: func(ctx context.Context) error {
				_, err := backup.Run(ctx, svc.Store(), cfg.BackupDir, time.Now())
				return err
			},
		})
	}
	return jobs
}
