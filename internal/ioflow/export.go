package ioflow

import (
	"context"

	"github.com/kpilake/kpilake/pkg/dag"
	"github.com/kpilake/kpilake/pkg/table"
)

// KPI is a gold artifact published to the serving store.
type KPI struct {
	Object     string
	Collection string
}

// KPIs are exported by the export flow, one collection each.
var KPIs = []KPI{
	{Object: VolumesDayObject, Collection: "kpi_volumes_jour"},
	{Object: VolumesWeekObject, Collection: "kpi_volumes_semaine"},
	{Object: VolumesMonthObject, Collection: "kpi_volumes_mois"},
	{Object: RevenueCountryObject, Collection: "kpi_ca_par_pays"},
	{Object: GrowthObject, Collection: "kpi_croissance"},
	{Object: DistributionObject, Collection: "kpi_distribution"},
}

func (p *Pipeline) exportTasks() []dag.Task {
	goldBucket := p.cfg.ObjectStore.GoldBucket

	var res []dag.Task
	for _, kpi := range KPIs {
		read, export := "read_"+kpi.Collection, "export_"+kpi.Collection
		var t *table.Table
		res = append(res,
			dag.Task{
				Name:    read,
				Retries: ioRetries,
				Run: func(ctx context.Context) error {
					var err error
					if t, err = p.layer.Read(ctx, goldBucket, kpi.Object); err != nil {
						return retryable(err)
					}
					return nil
				},
			},
			dag.Task{
				Name:    export,
				Deps:    []string{read},
				Retries: ioRetries,
				Run: func(ctx context.Context) error {
					n, err := p.exporter.ExportToServing(ctx, t, kpi.Collection)
					if err != nil {
						return retryable(err)
					}
					p.metrics.DocumentsExported(kpi.Collection, n)
					return nil
				},
			},
		)
	}
	return res
}
