package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/iliyamo/farm-market/internal/app"
)

type openFunc func(ctx context.Context) (*app.Services, func(), error)

func newRootCmd(out io.Writer, open openFunc) *cobra.Command {
	root := &cobra.Command{
		Use:           "marketctl",
		Short:         "Moderate the farm market store",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(out)

	// withServices opens the store for the duration of one command.
	withServices := func(run func(cmd *cobra.Command, svc *app.Services, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()
			return run(cmd, svc, args)
		}
	}

	root.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Print platform statistics",
		Args:  cobra.NoArgs,
		RunE: withServices(func(cmd *cobra.Command, svc *app.Services, _ []string) error {
			s, err := svc.Moderation.Stats(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(out, s)
		}),
	})

	var listingQuery string
	listings := &cobra.Command{
		Use:   "listings",
		Short: "List crop listings, optionally filtered by name or farmer",
		Args:  cobra.NoArgs,
		RunE: withServices(func(cmd *cobra.Command, svc *app.Services, _ []string) error {
			crops, err := svc.Moderation.Listings(cmd.Context(), listingQuery)
			if err != nil {
				return err
			}
			for _, c := range crops {
				state := "pending"
				if c.IsApproved {
					state = "approved"
				}
				fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.FarmerName, state)
			}
			return nil
		}),
	}
	listings.Flags().StringVarP(&listingQuery, "query", "q", "", "search term")
	root.AddCommand(listings)

	for _, approve := range []bool{true, false} {
		use := "approve <listing-id>"
		if !approve {
			use = "reject <listing-id>"
		}
		root.AddCommand(&cobra.Command{
			Use:   use,
			Short: "Set a listing's approval flag",
			Args:  cobra.ExactArgs(1),
			RunE: withServices(func(cmd *cobra.Command, svc *app.Services, args []string) error {
				_, found, err := svc.Moderation.SetListingApproval(cmd.Context(), args[0], approve)
				if err != nil {
					return err
				}
				if !found {
					fmt.Fprintf(out, "listing %s not found, nothing changed\n", args[0])
					return nil
				}
				fmt.Fprintf(out, "listing %s approved=%v\n", args[0], approve)
				return nil
			}),
		})
	}

	var userQuery string
	users := &cobra.Command{
		Use:   "users",
		Short: "List users, optionally filtered by name or email",
		Args:  cobra.NoArgs,
		RunE: withServices(func(cmd *cobra.Command, svc *app.Services, _ []string) error {
			list, err := svc.Moderation.Users(cmd.Context(), userQuery)
			if err != nil {
				return err
			}
			for _, u := range list {
				fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", u.ID, u.Role, u.Name, u.Email)
			}
			return nil
		}),
	}
	users.Flags().StringVarP(&userQuery, "query", "q", "", "search term")
	root.AddCommand(users)

	root.AddCommand(&cobra.Command{
		Use:   "remove-user <user-id>",
		Short: "Delete a user account; listings and orders are kept",
		Args:  cobra.ExactArgs(1),
		RunE: withServices(func(cmd *cobra.Command, svc *app.Services, args []string) error {
			removed, err := svc.Moderation.RemoveUser(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintf(out, "user %s not found, nothing changed\n", args[0])
				return nil
			}
			fmt.Fprintf(out, "user %s removed\n", args[0])
			return nil
		}),
	})

	return root
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
