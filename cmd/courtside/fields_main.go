package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sawpanic/courtside/internal/pipeline"
)

// runFields prints the closed condition field vocabulary.
func runFields(cmd *cobra.Command, args []string) error {
	for _, f := range pipeline.KnownFields() {
		fmt.Println(f)
	}
	return nil
}
