package query

import (
	"github.com/imamik/storagelab/internal/dataset"
	"github.com/imamik/storagelab/internal/provisioning"
)

// Catalog creates the database and both external tables over the seeded
// dataset, then selects a few rows from each table.
type Catalog struct {
	runner *Runner
}

// NewCatalog creates a catalog workflow using runner.
func NewCatalog(runner *Runner) *Catalog {
	return &Catalog{runner: runner}
}

// Name implements the provisioning.Phase interface.
func (c *Catalog) Name() string {
	return "query catalog"
}

// Provision implements the provisioning.Phase interface.
func (c *Catalog) Provision(ctx *provisioning.Context) error {
	statements, err := Statements(ctx)
	if err != nil {
		return err
	}

	phases := make([]provisioning.Phase, 0, len(statements))
	for _, stmt := range statements {
		phases = append(phases, provisioning.PhaseFunc{
			PhaseName: stmt.Name,
			Fn: func(ctx *provisioning.Context) error {
				_, err := c.runner.Run(ctx, stmt)
				return err
			},
		})
	}
	return provisioning.RunPhases(ctx, phases)
}

// Statements builds the catalog statements from the configuration.
func Statements(ctx *provisioning.Context) ([]Statement, error) {
	q := ctx.Config.Query
	objects := ctx.Config.Objects
	csvLocation := "s3://" + objects.Bucket + "/" + objects.CSVPrefix()
	jsonLocation := "s3://" + objects.Bucket + "/" + objects.JSONPrefix()

	builders := []struct {
		name  string
		build func() (string, error)
	}{
		{"create database", func() (string, error) { return dataset.CreateDatabaseSQL(q.Database) }},
		{"drop csv table", func() (string, error) { return dataset.DropTableSQL(q.Database, q.CSVTable) }},
		{"create csv table", func() (string, error) {
			return dataset.CreateCSVTableSQL(q.Database, q.CSVTable, csvLocation)
		}},
		{"select csv rows", func() (string, error) { return dataset.SelectSQL(q.Database, q.CSVTable, q.ResultLimit) }},
		{"drop json table", func() (string, error) { return dataset.DropTableSQL(q.Database, q.JSONTable) }},
		{"create json table", func() (string, error) {
			return dataset.CreateJSONTableSQL(q.Database, q.JSONTable, jsonLocation)
		}},
		{"select json rows", func() (string, error) { return dataset.SelectSQL(q.Database, q.JSONTable, q.ResultLimit) }},
	}

	statements := make([]Statement, 0, len(builders))
	for _, b := range builders {
		sql, err := b.build()
		if err != nil {
			return nil, err
		}
		statements = append(statements, Statement{Name: b.name, SQL: sql})
	}
	return statements, nil
}
