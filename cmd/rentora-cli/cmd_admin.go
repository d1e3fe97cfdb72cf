package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rentora/rentora/client"
	"github.com/spf13/cobra"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative commands",
	}
	cmd.AddCommand(adminHealthCmd())
	cmd.AddCommand(adminStatsCmd())
	cmd.AddCommand(adminConfigCmd())
	cmd.AddCommand(adminGracePeriodCmd())
	return cmd
}

func adminHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		Run: func(cmd *cobra.Command, args []string) {
			resp, err := apiClient.Health(context.Background())
			if err != nil {
				fatal("health", err)
			}
			output(resp, resp.Status)
		},
	}
}

func adminStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show registry statistics",
		Run: func(cmd *cobra.Command, args []string) {
			resp, err := apiClient.Stats(context.Background())
			if err != nil {
				fatal("stats", err)
			}
			if flagFmt == "table" {
				formatTable(
					[]string{"METRIC", "VALUE"},
					[][]string{
						{"Properties", fmt.Sprintf("%d", resp.Properties)},
						{"Leased", fmt.Sprintf("%d", resp.Leased)},
						{"Active Leases", fmt.Sprintf("%d", resp.ActiveLeases)},
						{"Pending Leases", fmt.Sprintf("%d", resp.PendingLeases)},
						{"Escrow Held", fmt.Sprintf("%d", resp.EscrowHeld)},
						{"Audit Entries", fmt.Sprintf("%d", resp.AuditEntries)},
					},
				)
				return
			}
			output(resp, "")
		},
	}
}

func adminConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the current registry configuration",
		Run: func(cmd *cobra.Command, args []string) {
			resp, err := apiClient.Admin.GetConfig(context.Background())
			if err != nil {
				fatal("get config", err)
			}
			output(resp, strconv.FormatInt(resp.GracePeriodSeconds, 10))
		},
	}
}

func adminGracePeriodCmd() *cobra.Command {
	var seconds int64
	cmd := &cobra.Command{
		Use:   "set-grace-period",
		Short: "Set the default-claim grace period (owner only)",
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.Admin.SetGracePeriod(context.Background(), seconds); err != nil {
				fatal("set grace period", err)
			}
			output(map[string]int64{"grace_period_seconds": seconds}, strconv.FormatInt(seconds, 10))
		},
	}
	cmd.Flags().Int64Var(&seconds, "seconds", 0, "Grace period in seconds")
	cmd.MarkFlagRequired("seconds") //nolint:errcheck
	return cmd
}

func newAuditCmd() *cobra.Command {
	var (
		propertyID int64
		action     string
		actor      string
		limit      int
	)
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Query the transition audit trail",
		Run: func(cmd *cobra.Command, args []string) {
			opts := &client.AuditQueryOptions{
				PropertyID: propertyID,
				Action:     action,
				Actor:      actor,
				Limit:      limit,
			}
			entries, _, err := apiClient.Audit.Query(context.Background(), opts)
			if err != nil {
				fatal("audit query", err)
			}
			if flagFmt == "table" {
				headers := []string{"ID", "PROPERTY", "ACTION", "ACTOR", "CREATED_AT"}
				var rows [][]string
				for _, e := range entries {
					rows = append(rows, []string{
						strconv.FormatInt(e.ID, 10),
						strconv.FormatInt(e.PropertyID, 10),
						e.Action, e.Actor,
						e.CreatedAt.Format("2006-01-02 15:04:05"),
					})
				}
				formatTable(headers, rows)
				return
			}
			output(entries, "")
		},
	}
	cmd.Flags().Int64Var(&propertyID, "property", 0, "Filter by property id")
	cmd.Flags().StringVar(&action, "action", "", "Filter by action")
	cmd.Flags().StringVar(&actor, "actor", "", "Filter by actor UUID")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results")
	return cmd
}
