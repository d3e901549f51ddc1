package ioflow

import (
	"context"

	"github.com/kpilake/kpilake/pkg/dag"
	"github.com/kpilake/kpilake/pkg/gold"
	"github.com/kpilake/kpilake/pkg/table"
)

// Gold objects.
const (
	DimClientsObject      = "dim_clients.parquet"
	DimTimeObject         = "dim_temps.parquet"
	FactObject            = "fact_achats.parquet"
	VolumesDayObject      = "kpi_volumes_jour.parquet"
	VolumesWeekObject     = "kpi_volumes_semaine.parquet"
	VolumesMonthObject    = "kpi_volumes_mois.parquet"
	RevenueCountryObject  = "kpi_ca_par_pays.parquet"
	GrowthObject          = "kpi_croissance.parquet"
	DistributionObject    = "kpi_distribution.parquet"
	silverClientsObject   = "clients.parquet"
	silverPurchasesObject = "achats.parquet"
)

// goldState holds the tables passed between gold tasks. Each field is
// written by one task and read only by its dependents.
type goldState struct {
	clients, purchases  *table.Table
	dimClients, dimTime *table.Table
	fact                *table.Table
	volumes             gold.Volumes
	revenue             *table.Table
	growth              *table.Table
	distribution        *table.Table
}

func (p *Pipeline) goldTasks() []dag.Task {
	silverBucket := p.cfg.ObjectStore.SilverBucket
	goldBucket := p.cfg.ObjectStore.GoldBucket
	s := &goldState{}

	read := func(name, key string, dst **table.Table) dag.Task {
		return dag.Task{
			Name:    name,
			Retries: ioRetries,
			Run: func(ctx context.Context) error {
				t, err := p.layer.Read(ctx, silverBucket, key)
				if err != nil {
					return retryable(err)
				}
				*dst = t
				return nil
			},
		}
	}
	compute := func(name string, deps []string, fn func()) dag.Task {
		return dag.Task{
			Name: name,
			Deps: deps,
			Run: func(context.Context) error {
				fn()
				return nil
			},
		}
	}
	write := func(name, dep, key string, get func() *table.Table) dag.Task {
		return p.writeTask(name, []string{dep}, goldBucket, key, get)
	}

	return []dag.Task{
		read("read_clients", silverClientsObject, &s.clients),
		read("read_achats", silverPurchasesObject, &s.purchases),

		compute("dim_clients", []string{"read_clients"}, func() {
			s.dimClients = gold.ClientDimension(s.clients)
		}),
		compute("dim_temps", []string{"read_achats"}, func() {
			s.dimTime = gold.TimeDimension(s.purchases)
		}),
		compute("fact_achats", []string{"read_clients", "read_achats"}, func() {
			s.fact = gold.Fact(s.purchases, s.clients)
		}),

		compute("kpi_volumes", []string{"fact_achats"}, func() {
			s.volumes = gold.VolumesByPeriod(s.fact)
		}),
		compute("kpi_ca_pays", []string{"fact_achats"}, func() {
			s.revenue = gold.RevenueByCountry(s.fact)
		}),
		compute("kpi_distribution", []string{"fact_achats"}, func() {
			s.distribution = gold.Distribution(s.fact)
		}),
		compute("kpi_croissance", []string{"kpi_volumes"}, func() {
			s.growth = gold.Growth(s.volumes.Month)
		}),

		write("write_dim_clients", "dim_clients", DimClientsObject,
			func() *table.Table { return s.dimClients }),
		write("write_dim_temps", "dim_temps", DimTimeObject,
			func() *table.Table { return s.dimTime }),
		write("write_fact_achats", "fact_achats", FactObject,
			func() *table.Table { return s.fact }),
		write("write_volumes_jour", "kpi_volumes", VolumesDayObject,
			func() *table.Table { return s.volumes.Day }),
		write("write_volumes_semaine", "kpi_volumes", VolumesWeekObject,
			func() *table.Table { return s.volumes.Week }),
		write("write_volumes_mois", "kpi_volumes", VolumesMonthObject,
			func() *table.Table { return s.volumes.Month }),
		write("write_ca_pays", "kpi_ca_pays", RevenueCountryObject,
			func() *table.Table { return s.revenue }),
		write("write_croissance", "kpi_croissance", GrowthObject,
			func() *table.Table { return s.growth }),
		write("write_distribution", "kpi_distribution", DistributionObject,
			func() *table.Table { return s.distribution }),
	}
}
