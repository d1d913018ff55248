package cron

import (
	"context"
	"fmt"

	"github.com/mvolkova/shopbot-backend/pkg/logger"
)

// snapshotExporter is the slice of the backup service this job needs.
type snapshotExporter interface {
	Export(ctx context.Context) (string, error)
}

// CatalogExportJobParams configure the scheduled catalog export.
type CatalogExportJobParams struct {
	Logger   *logger.Logger
	Exporter snapshotExporter
}

// NewCatalogExportJob builds the job that writes a catalog snapshot each
// scheduler cycle.
func NewCatalogExportJob(params CatalogExportJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Exporter == nil {
		return nil, fmt.Errorf("exporter required")
	}
	return &catalogExportJob{
		logg:     params.Logger,
		exporter: params.Exporter,
	}, nil
}

type catalogExportJob struct {
	logg     *logger.Logger
	exporter snapshotExporter
}

func (j *catalogExportJob) Name() string { return "catalog-export" }

func (j *catalogExportJob) Run(ctx context.Context) error {
	path, err := j.exporter.Export(ctx)
	if err != nil {
		return fmt.Errorf("catalog export: %w", err)
	}
	j.logg.Info(j.logg.WithSnapshot(ctx, path), "catalog snapshot exported")
	return nil
}
