package main

import (
	"context"
	"strconv"

	"github.com/rentora/rentora/client"
	"github.com/spf13/cobra"
)

func newLeaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lease",
		Short: "Drive the lease lifecycle",
	}
	cmd.AddCommand(leaseApplyCmd())
	cmd.AddCommand(leaseConfirmCmd())
	cmd.AddCommand(leasePayCmd())
	cmd.AddCommand(leaseExtendCmd())
	cmd.AddCommand(leaseTerminateCmd())
	cmd.AddCommand(leaseClaimDefaultCmd())
	cmd.AddCommand(leaseSwitchCmd())
	return cmd
}

func leaseApplyCmd() *cobra.Command {
	var (
		duration     int
		userScore    int
		currentUsage int64
		usageCap     int64
		amount       int64
	)
	cmd := &cobra.Command{
		Use:   "apply <property-id>",
		Short: "Apply to lease a property, escrowing the deposit",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.ApplyRequest{
				DurationMonths: duration,
				UserScore:      userScore,
				CurrentUsage:   currentUsage,
				UsageCap:       usageCap,
				Amount:         amount,
			}
			lease, err := apiClient.Leases.Apply(context.Background(), parsePropertyArg(args[0]), req)
			if err != nil {
				fatal("apply", err)
			}
			output(lease, lease.State)
		},
	}
	cmd.Flags().IntVar(&duration, "duration", 0, "Lease duration in months")
	cmd.Flags().IntVar(&userScore, "score", 0, "Tenant reliability score (0-10)")
	cmd.Flags().Int64Var(&currentUsage, "usage", 0, "Current usage units")
	cmd.Flags().Int64Var(&usageCap, "usage-cap", 0, "Usage cap units")
	cmd.Flags().Int64Var(&amount, "amount", 0, "Deposit amount (three months of quoted rent)")
	cmd.MarkFlagRequired("duration") //nolint:errcheck
	cmd.MarkFlagRequired("amount")   //nolint:errcheck
	return cmd
}

func leaseConfirmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <property-id>",
		Short: "Activate a pending lease (landlord only)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			lease, err := apiClient.Leases.Confirm(context.Background(), parsePropertyArg(args[0]))
			if err != nil {
				fatal("confirm", err)
			}
			output(lease, lease.State)
		},
	}
}

func leasePayCmd() *cobra.Command {
	var amount int64
	cmd := &cobra.Command{
		Use:   "pay <property-id>",
		Short: "Pay one month of rent",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			lease, err := apiClient.Leases.PayRent(context.Background(), parsePropertyArg(args[0]), amount)
			if err != nil {
				fatal("pay rent", err)
			}
			quiet := ""
			if lease.NextPaymentDue != nil {
				quiet = lease.NextPaymentDue.Format("2006-01-02")
			}
			output(lease, quiet)
		},
	}
	cmd.Flags().Int64Var(&amount, "amount", 0, "Payment amount (must equal the monthly rent)")
	cmd.MarkFlagRequired("amount") //nolint:errcheck
	return cmd
}

func leaseExtendCmd() *cobra.Command {
	var (
		months int
		amount int64
	)
	cmd := &cobra.Command{
		Use:   "extend <property-id>",
		Short: "Extend an active lease",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.ExtendRequest{ExtensionMonths: months, Amount: amount}
			lease, err := apiClient.Leases.Extend(context.Background(), parsePropertyArg(args[0]), req)
			if err != nil {
				fatal("extend", err)
			}
			output(lease, strconv.Itoa(lease.DurationMonths))
		},
	}
	cmd.Flags().IntVar(&months, "months", 0, "Months to add")
	cmd.Flags().Int64Var(&amount, "amount", 0, "Deposit top-up (zero when the new deposit is lower)")
	cmd.MarkFlagRequired("months") //nolint:errcheck
	return cmd
}

func leaseTerminateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "terminate <property-id>",
		Short: "End an expired lease and refund the deposit",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			refunded, err := apiClient.Leases.Terminate(context.Background(), parsePropertyArg(args[0]))
			if err != nil {
				fatal("terminate", err)
			}
			output(map[string]int64{"refunded": refunded}, strconv.FormatInt(refunded, 10))
		},
	}
}

func leaseClaimDefaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "claim-default <property-id>",
		Short: "Forfeit a delinquent tenant's deposit (landlord only)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			claimed, err := apiClient.Leases.ClaimDefault(context.Background(), parsePropertyArg(args[0]))
			if err != nil {
				fatal("claim default", err)
			}
			output(map[string]int64{"claimed": claimed}, strconv.FormatInt(claimed, 10))
		},
	}
}

func leaseSwitchCmd() *cobra.Command {
	var (
		oldID        int64
		duration     int
		userScore    int
		currentUsage int64
		usageCap     int64
		amount       int64
	)
	cmd := &cobra.Command{
		Use:   "switch <new-property-id>",
		Short: "Apply to a new property once the old lease is settled",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.SwitchRequest{
				OldPropertyID: oldID,
				NewPropertyID: parsePropertyArg(args[0]),
				Apply: client.ApplyRequest{
					DurationMonths: duration,
					UserScore:      userScore,
					CurrentUsage:   currentUsage,
					UsageCap:       usageCap,
					Amount:         amount,
				},
			}
			lease, err := apiClient.Leases.Switch(context.Background(), req)
			if err != nil {
				fatal("switch", err)
			}
			output(lease, lease.State)
		},
	}
	cmd.Flags().Int64Var(&oldID, "from", 0, "Old property id")
	cmd.Flags().IntVar(&duration, "duration", 0, "Lease duration in months")
	cmd.Flags().IntVar(&userScore, "score", 0, "Tenant reliability score (0-10)")
	cmd.Flags().Int64Var(&currentUsage, "usage", 0, "Current usage units")
	cmd.Flags().Int64Var(&usageCap, "usage-cap", 0, "Usage cap units")
	cmd.Flags().Int64Var(&amount, "amount", 0, "Deposit amount for the new lease")
	cmd.MarkFlagRequired("from")     //nolint:errcheck
	cmd.MarkFlagRequired("duration") //nolint:errcheck
	cmd.MarkFlagRequired("amount")   //nolint:errcheck
	return cmd
}
