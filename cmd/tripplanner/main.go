package main

import (
	"fmt"
	"os"

	tripplannercmder "github.com/papercomputeco/tripplanner/cmd/tripplanner/root"
)

func main() {
	if err := tripplannercmder.NewTripplannerCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
