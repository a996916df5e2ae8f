package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) snapshot() error {
	snapshots, err := cli.calc.Snapshot(context.Background())
	if err != nil {
		return err
	}
	for _, snap := range snapshots {
		fmt.Printf("%-20s %6.2f%% (%d/%d) %s\n", snap.MetricKey, snap.Percentage, snap.Current, snap.Total, snap.Status)
	}
	return nil
}
