package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gitdeath/cf-search/internal/arr"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Test connectivity to all configured instances",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if len(cfg.Instances) == 0 {
			return fmt.Errorf("no instances configured")
		}

		results := make([]error, len(cfg.Instances))
		g, ctx := errgroup.WithContext(cmd.Context())
		for i, ic := range cfg.Instances {
			client := arr.NewClient(ic.URL, ic.APIKey)
			g.Go(func() error {
				results[i] = client.Ping(ctx)
				return nil
			})
		}
		_ = g.Wait()

		failed := 0
		for i, ic := range cfg.Instances {
			if results[i] != nil {
				failed++
				fmt.Printf("%-10s %s error: %v\n", ic.Key, ic.URL, results[i])
				continue
			}
			fmt.Printf("%-10s %s ok\n", ic.Key, ic.URL)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d instances unreachable", failed, len(cfg.Instances))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
