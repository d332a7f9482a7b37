// Package seed loads an optional YAML fixture file of tables and items at
// startup, so a developer can point the emulator at a known dataset
// instead of re-creating it with API calls on every run.
package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"ddblocal/internal/attrvalue"
	"ddblocal/internal/tablemanager"
)

// File is the top-level shape of a seed fixture.
type File struct {
	Tables []Table `yaml:"tables"`
}

// Table describes one table to create and the items to insert into it.
type Table struct {
	Name                 string                          `yaml:"name"`
	AttributeDefinitions []attrvalue.AttributeDefinition `yaml:"attributeDefinitions"`
	KeySchema            []attrvalue.KeySchemaElement    `yaml:"keySchema"`
	Items                []map[string]string             `yaml:"items"`
}

// Load parses path and applies it to m, creating each table and inserting
// its items. Every item attribute is treated as a string (S) value, which
// covers every key type this emulator supports (see Non-goals).
func Load(path string, m *tablemanager.Manager) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("seed: reading %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("seed: parsing %s: %w", path, err)
	}

	for _, t := range f.Tables {
		table, err := m.NewTable(tablemanager.DefaultAccountID, tablemanager.DefaultRegion, t.Name, t.AttributeDefinitions, t.KeySchema)
		if err != nil {
			return fmt.Errorf("seed: creating table %q: %w", t.Name, err)
		}
		for _, rawItem := range t.Items {
			item := make(attrvalue.Item, len(rawItem))
			for k, v := range rawItem {
				item[k] = attrvalue.String(v)
			}
			if err := table.Insert(item); err != nil {
				return fmt.Errorf("seed: inserting into table %q: %w", t.Name, err)
			}
		}
	}
	return nil
}
