package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"thibou/internal/catalog"
)

// kindSteps lists the enrichment steps each kind runs after upload.
var kindSteps = map[catalog.Kind][]string{
	catalog.KindVillager: {"houses", "translations", "ranks"},
	catalog.KindFish:     {"translations"},
	catalog.KindBug:      {"translations"},
	catalog.KindFossil:   nil,
}

func newTypesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "types",
		Short:       "List the entity types that can be populated",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(catalog.Kinds))
			for _, kind := range catalog.Kinds {
				steps := strings.Join(kindSteps[kind], ", ")
				if steps == "" {
					steps = "-"
				}
				rows = append(rows, []string{kind.Command(), "/" + kind.Resource(), steps})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Command", "Resource", "Enrichment"}, rows, nil))
			return nil
		},
	}
}
