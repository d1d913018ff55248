package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/mvolkova/shopbot-backend/pkg/logger"
)

type fakeLock struct {
	acquired bool
	releases int
}

func (f *fakeLock) Acquire(context.Context) (bool, error) {
	if f.acquired {
		return false, nil
	}
	f.acquired = true
	return true, nil
}

func (f *fakeLock) Release(context.Context) error {
	f.acquired = false
	f.releases++
	return nil
}

type testJob struct {
	name string
	err  error
	runs int
}

func (t *testJob) Name() string { return t.name }

func (t *testJob) Run(context.Context) error {
	t.runs++
	return t.err
}

func newSchedulerTestService(t *testing.T, registry *Registry, lock Lock) *Service {
	t.Helper()
	service, err := NewService(ServiceParams{
		Logger:   logger.New(logger.Options{ServiceName: "scheduler-test"}),
		Registry: registry,
		Lock:     lock,
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	return service
}

func TestServiceRunCycleRunsAllJobsEvenOnFailure(t *testing.T) {
	healthy := &testJob{name: "catalog-export"}
	broken := &testJob{name: "snapshot-retention", err: errors.New("disk gone")}
	lock := &fakeLock{}
	service := newSchedulerTestService(t, NewRegistry(healthy, broken), lock)

	if err := service.runCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if healthy.runs != 1 {
		t.Fatalf("expected healthy job to run once, ran %d", healthy.runs)
	}
	if broken.runs != 1 {
		t.Fatalf("expected broken job to still run once, ran %d", broken.runs)
	}
	if lock.releases != 1 {
		t.Fatalf("expected lock released once, got %d", lock.releases)
	}
}

func TestServiceSkipsCycleWhenLockHeld(t *testing.T) {
	job := &testJob{name: "catalog-export"}
	lock := &fakeLock{acquired: true}
	service := newSchedulerTestService(t, NewRegistry(job), lock)

	if err := service.runCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("expected no runs while lock is held elsewhere, got %d", job.runs)
	}
	if lock.releases != 0 {
		t.Fatalf("expected no release of a foreign lock, got %d", lock.releases)
	}
}
