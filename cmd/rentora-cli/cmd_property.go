package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/rentora/rentora/client"
	"github.com/spf13/cobra"
)

func newPropertyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "property",
		Short: "Manage properties",
	}
	cmd.AddCommand(propertyMintCmd())
	cmd.AddCommand(propertyGetCmd())
	cmd.AddCommand(propertyListCmd())
	cmd.AddCommand(propertyConditionCmd())
	cmd.AddCommand(propertyQuoteCmd())
	return cmd
}

func parsePropertyArg(arg string) int64 {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		fmt.Fprintf(os.Stderr, "Error: property id must be a positive integer\n")
		os.Exit(1)
	}
	return id
}

func propertyMintCmd() *cobra.Command {
	var (
		landlord  string
		size      int
		rooms     int
		yearBuilt int
		baseValue int64
		condition int
	)
	cmd := &cobra.Command{
		Use:   "mint <location>",
		Short: "Register a new property (owner only)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.MintPropertyRequest{
				Landlord:  landlord,
				Location:  args[0],
				Size:      size,
				Rooms:     rooms,
				YearBuilt: yearBuilt,
				BaseValue: baseValue,
				Condition: condition,
			}
			prop, err := apiClient.Properties.Mint(context.Background(), req)
			if err != nil {
				fatal("mint property", err)
			}
			output(prop, strconv.FormatInt(prop.ID, 10))
		},
	}
	cmd.Flags().StringVar(&landlord, "landlord", "", "Landlord party UUID")
	cmd.Flags().IntVar(&size, "size", 0, "Size in square meters")
	cmd.Flags().IntVar(&rooms, "rooms", 0, "Number of rooms")
	cmd.Flags().IntVar(&yearBuilt, "year-built", 0, "Construction year")
	cmd.Flags().Int64Var(&baseValue, "base-value", 0, "Base value in smallest currency units")
	cmd.Flags().IntVar(&condition, "condition", 100, "Wear score (0-100)")
	cmd.MarkFlagRequired("landlord")  //nolint:errcheck
	cmd.MarkFlagRequired("size")      //nolint:errcheck
	cmd.MarkFlagRequired("rooms")     //nolint:errcheck
	cmd.MarkFlagRequired("year-built") //nolint:errcheck
	cmd.MarkFlagRequired("base-value") //nolint:errcheck
	return cmd
}

func propertyGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get a property and its lease, if any",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			detail, err := apiClient.Properties.Get(context.Background(), parsePropertyArg(args[0]))
			if err != nil {
				fatal("get property", err)
			}
			output(detail, strconv.FormatInt(detail.Property.ID, 10))
		},
	}
}

func propertyListCmd() *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List properties",
		Run: func(cmd *cobra.Command, args []string) {
			if limit < 0 || offset < 0 {
				fmt.Fprintf(os.Stderr, "Error: --limit and --offset must be non-negative\n")
				os.Exit(1)
			}
			opts := &client.PropertyListOptions{Limit: limit, Offset: offset}
			properties, _, err := apiClient.Properties.List(context.Background(), opts)
			if err != nil {
				fatal("list properties", err)
			}
			if flagFmt == "table" {
				headers := []string{"ID", "LOCATION", "ROOMS", "CONDITION", "LEASED"}
				var rows [][]string
				for _, p := range properties {
					rows = append(rows, []string{
						strconv.FormatInt(p.ID, 10), p.Location,
						strconv.Itoa(p.Rooms), strconv.Itoa(p.Condition),
						strconv.FormatBool(p.Leased),
					})
				}
				formatTable(headers, rows)
				return
			}
			if flagFmt == "quiet" {
				for _, p := range properties {
					fmt.Println(p.ID)
				}
				return
			}
			output(properties, "")
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Offset")
	return cmd
}

func propertyConditionCmd() *cobra.Command {
	var condition int
	cmd := &cobra.Command{
		Use:   "condition <id>",
		Short: "Report a new wear score for a property",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			prop, err := apiClient.Properties.UpdateCondition(context.Background(), parsePropertyArg(args[0]), condition)
			if err != nil {
				fatal("update condition", err)
			}
			output(prop, strconv.Itoa(prop.Condition))
		},
	}
	cmd.Flags().IntVar(&condition, "value", 0, "New wear score (0-100)")
	cmd.MarkFlagRequired("value") //nolint:errcheck
	return cmd
}

func propertyQuoteCmd() *cobra.Command {
	var (
		duration     int
		userScore    int
		currentUsage int64
		usageCap     int64
	)
	cmd := &cobra.Command{
		Use:   "quote <id>",
		Short: "Quote the monthly rent and required deposit",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			opts := client.QuoteOptions{
				DurationMonths: duration,
				UserScore:      userScore,
				CurrentUsage:   currentUsage,
				UsageCap:       usageCap,
			}
			quote, err := apiClient.Properties.Quote(context.Background(), parsePropertyArg(args[0]), opts)
			if err != nil {
				fatal("quote", err)
			}
			output(quote, strconv.FormatInt(quote.MonthlyRent, 10))
		},
	}
	cmd.Flags().IntVar(&duration, "duration", 0, "Lease duration in months")
	cmd.Flags().IntVar(&userScore, "score", 0, "Tenant reliability score (0-10)")
	cmd.Flags().Int64Var(&currentUsage, "usage", 0, "Current usage units")
	cmd.Flags().Int64Var(&usageCap, "usage-cap", 0, "Usage cap units")
	cmd.MarkFlagRequired("duration") //nolint:errcheck
	return cmd
}
