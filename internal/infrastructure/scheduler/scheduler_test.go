package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/ecommerce-backend/internal/cfg"
	"github.com/DRSN-tech/ecommerce-backend/internal/usecase"
	"github.com/DRSN-tech/ecommerce-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMaintenance struct {
	mu       sync.Mutex
	flushes  int
	purges   int
	checks   int
	flushErr error
	reports  []usecase.ProbeReport
}

func (f *fakeMaintenance) FlushProductCache(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushes++
	return 3, f.flushErr
}

func (f *fakeMaintenance) PurgeExpiredTokens(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.purges++
	return 1, nil
}

func (f *fakeMaintenance) CheckHealth(context.Context) []usecase.ProbeReport {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checks++
	return f.reports
}

func (f *fakeMaintenance) CheckComponent(context.Context, string) (*usecase.ProbeReport, error) {
	return nil, errors.New("not used")
}

func (f *fakeMaintenance) counts() (int, int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.flushes, f.purges, f.checks
}

type fakeReporter struct {
	mu       sync.Mutex
	received [][]usecase.ProbeReport
}

func (f *fakeReporter) ReportHealth(reports []usecase.ProbeReport) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.received = append(f.received, reports)
}

func defaultSpecs() *cfg.SchedulerCfg {
	return &cfg.SchedulerCfg{
		CacheFlushSpec:  "0 0 */4 * * *",
		TokenPurgeSpec:  "0 0 0 * * *",
		HealthCheckSpec: "0 */5 * * * *",
	}
}

func TestNew_RegistersAllJobs(t *testing.T) {
	s, err := New(&fakeMaintenance{}, defaultSpecs(), logger.Nop{})
	require.NoError(t, err)
	assert.Len(t, s.cron.Entries(), 3)
}

func TestNew_InvalidSpec(t *testing.T) {
	specs := defaultSpecs()
	specs.TokenPurgeSpec = "every night"

	_, err := New(&fakeMaintenance{}, specs, logger.Nop{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token-purge")
}

func TestNew_FiveFieldSpecRejected(t *testing.T) {
	specs := defaultSpecs()
	specs.CacheFlushSpec = "0 */4 * * *"

	_, err := New(&fakeMaintenance{}, specs, logger.Nop{})
	assert.Error(t, err)
}

func TestCheckHealth_FansOutToReporters(t *testing.T) {
	maint := &fakeMaintenance{reports: []usecase.ProbeReport{
		{Component: "store", Status: usecase.ProbeUp},
		{Component: "cache", Status: usecase.ProbeDown, Error: "dial tcp: refused"},
	}}
	r1, r2 := &fakeReporter{}, &fakeReporter{}

	s, err := New(maint, defaultSpecs(), logger.Nop{}, r1, r2)
	require.NoError(t, err)

	s.CheckHealth()

	require.Len(t, r1.received, 1)
	require.Len(t, r2.received, 1)
	assert.Equal(t, maint.reports, r1.received[0])
}

func TestFlushCache_ErrorIsLogged(t *testing.T) {
	maint := &fakeMaintenance{flushErr: errors.New("redis down")}
	s, err := New(maint, defaultSpecs(), logger.Nop{})
	require.NoError(t, err)

	assert.NotPanics(t, s.FlushCache)
	flushes, _, _ := maint.counts()
	assert.Equal(t, 1, flushes)
}

func TestStart_RunsJobsOnSchedule(t *testing.T) {
	maint := &fakeMaintenance{}
	s, err := New(maint, &cfg.SchedulerCfg{
		CacheFlushSpec:  "* * * * * *",
		TokenPurgeSpec:  "* * * * * *",
		HealthCheckSpec: "* * * * * *",
	}, logger.Nop{})
	require.NoError(t, err)

	s.Start()
	require.Eventually(t, func() bool {
		flushes, purges, checks := maint.counts()
		return flushes > 0 && purges > 0 && checks > 0
	}, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}
