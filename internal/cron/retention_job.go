package cron

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/mvolkova/shopbot-backend/internal/backup"
	"github.com/mvolkova/shopbot-backend/pkg/logger"
)

const defaultSnapshotsKept = 14

// SnapshotRetentionJobParams configure the snapshot pruning job.
type SnapshotRetentionJobParams struct {
	Logger *logger.Logger
	Dir    string
	Keep   int
}

// NewSnapshotRetentionJob builds the job that deletes all but the newest
// snapshots from the backup directory.
func NewSnapshotRetentionJob(params SnapshotRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Dir == "" {
		return nil, fmt.Errorf("backup directory required")
	}
	keep := params.Keep
	if keep <= 0 {
		keep = defaultSnapshotsKept
	}
	return &snapshotRetentionJob{
		logg: params.Logger,
		dir:  params.Dir,
		keep: keep,
	}, nil
}

type snapshotRetentionJob struct {
	logg *logger.Logger
	dir  string
	keep int
}

func (j *snapshotRetentionJob) Name() string { return "snapshot-retention" }

func (j *snapshotRetentionJob) Run(ctx context.Context) error {
	matches, err := filepath.Glob(filepath.Join(j.dir, backup.SnapshotGlob))
	if err != nil {
		return fmt.Errorf("scan backup directory: %w", err)
	}
	if len(matches) <= j.keep {
		return nil
	}

	// Filenames embed the export timestamp, so sorted order is age order.
	sort.Strings(matches)
	stale := matches[:len(matches)-j.keep]
	for _, path := range stale {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"removed": len(stale),
		"kept":    j.keep,
	})
	j.logg.Info(logCtx, "stale snapshots pruned")
	return nil
}
