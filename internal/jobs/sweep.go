package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Sweeper drops idle state older than its own ttl.
type Sweeper interface {
	Sweep(now time.Time) int
}

type SweepJob struct {
	name     string
	target   Sweeper
	schedule string
}

func NewSweepJob(name string, target Sweeper, schedule string) *SweepJob {
	return &SweepJob{name: name, target: target, schedule: schedule}
}

func (j *SweepJob) Name() string     { return j.name }
func (j *SweepJob) Schedule() string { return j.schedule }

func (j *SweepJob) Execute(context.Context) error {
	if removed := j.target.Sweep(time.Now()); removed > 0 {
		log.Debug().Str("job", j.name).Int("removed", removed).Msg("swept idle entries")
	}
	return nil
}
