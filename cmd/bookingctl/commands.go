package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/dzoniops/booking-service/client"
	pb "github.com/dzoniops/booking-service/pkg/bookingpb"
	"github.com/dzoniops/booking-service/telemetry"
)

type app struct {
	addr     string
	timeout  time.Duration
	user     int64
	logLevel string

	// extra dial options, used by tests
	dialOptions []grpc.DialOption
}

func (a *app) connect(cmd *cobra.Command) (*client.BookingClient, error) {
	return client.Dial(a.addr, client.Options{
		Logger:      telemetry.NewLogger(cmd.ErrOrStderr(), a.logLevel),
		Timeout:     a.timeout,
		DialOptions: a.dialOptions,
	})
}

// run dials the service and hands the client to fn.
func (a *app) run(fn func(ctx context.Context, c *client.BookingClient, out io.Writer) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		c, err := a.connect(cmd)
		if err != nil {
			return err
		}
		defer c.Close()
		return fn(cmd.Context(), c, cmd.OutOrStdout())
	}
}

func (a *app) requireUser() error {
	if a.user == 0 {
		return fmt.Errorf("--user is required")
	}
	return nil
}

func newRootCmd(a *app) *cobra.Command {
	addr := os.Getenv("BOOKING_ADDR")
	if addr == "" {
		addr = "localhost:8080"
	}
	root := &cobra.Command{
		Use:           "bookingctl",
		Short:         "Manage units and bookings of the booking service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.addr, "addr", addr, "gRPC address of the booking service")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", client.DefaultTimeout, "per call timeout")
	root.PersistentFlags().Int64Var(&a.user, "user", 0, "id of the acting user")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "debug, info, warn or error")

	root.AddCommand(
		unitsCmd(a),
		bookCmd(a),
		cancelCmd(a),
		depositCmd(a),
		bookingsCmd(a),
		freeCmd(a),
		statsCmd(a),
	)
	return root
}

func parseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

/* ---------- units ---------- */

func unitsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "units",
		Short: "List and manage units",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all units",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, c *client.BookingClient, out io.Writer) error {
			res, err := c.ListUnits(ctx, &emptypb.Empty{})
			if err != nil {
				return err
			}
			if len(res.Units) == 0 {
				fmt.Fprintln(out, "No units yet.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tADMIN\tDESCRIPTION")
			for _, u := range res.Units {
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", u.Id, u.Name, u.AdminId, u.Description)
			}
			return w.Flush()
		}),
	}

	var admin int64
	var description string
	create := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if admin == 0 {
				admin = a.user
			}
			return a.run(func(ctx context.Context, c *client.BookingClient, out io.Writer) error {
				res, err := c.CreateUnit(ctx, &pb.CreateUnitRequest{
					Name:        args[0],
					AdminId:     admin,
					Description: description,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Created unit %d.\n", res.UnitId)
				return nil
			})(cmd, args)
		},
	}
	create.Flags().Int64Var(&admin, "admin", 0, "admin of the unit (defaults to --user)")
	create.Flags().StringVar(&description, "description", "", "unit description")

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a unit with its bookings and attachments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.run(func(ctx context.Context, c *client.BookingClient, out io.Writer) error {
				if _, err := c.DeleteUnit(ctx, &pb.IdRequest{Id: id}); err != nil {
					return err
				}
				fmt.Fprintf(out, "Deleted unit %d.\n", id)
				return nil
			})(cmd, args)
		},
	}

	describe := &cobra.Command{
		Use:   "describe ID TEXT...",
		Short: "Replace the description of a unit",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			text := strings.Join(args[1:], " ")
			return a.run(func(ctx context.Context, c *client.BookingClient, out io.Writer) error {
				if _, err := c.EditDescription(ctx, &pb.EditDescriptionRequest{UnitId: id, Description: text}); err != nil {
					return err
				}
				fmt.Fprintf(out, "Updated unit %d.\n", id)
				return nil
			})(cmd, args)
		},
	}

	cmd.AddCommand(list, create, del, describe)
	return cmd
}

/* ---------- bookings ---------- */

func bookCmd(a *app) *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:     "book UNIT_ID PERIOD",
		Short:   "Request a booking",
		Example: `  bookingctl book 3 "01.12.2024 - 05.12.2024" --user 17`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireUser(); err != nil {
				return err
			}
			unitID, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.run(func(ctx context.Context, c *client.BookingClient, out io.Writer) error {
				res, err := c.Book(ctx, unitID, a.user, username, args[1])
				if err != nil {
					return err
				}
				if res.Status == pb.StatusConfirmed {
					fmt.Fprintf(out, "Booking %d confirmed: %s\n", res.BookingId, res.Message)
					return nil
				}
				fmt.Fprintf(out, "Rejected (%s): %s\n", res.Reason, res.Message)
				if len(res.Alternatives) > 0 {
					fmt.Fprintln(out, "Free dates after the requested period:")
					printRanges(out, res.Alternatives)
				}
				return nil
			})(cmd, args)
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "display name of the requester")
	return cmd
}

func cancelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel BOOKING_ID",
		Short: "Cancel one of your bookings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireUser(); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.run(func(ctx context.Context, c *client.BookingClient, out io.Writer) error {
				if _, err := c.CancelBooking(ctx, &pb.CancelBookingRequest{BookingId: id, UserId: a.user}); err != nil {
					return err
				}
				fmt.Fprintf(out, "Cancelled booking %d.\n", id)
				return nil
			})(cmd, args)
		},
	}
}

func depositCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "Manage booking deposits",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "toggle BOOKING_ID",
		Short: "Flip the deposit-paid flag of a booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.run(func(ctx context.Context, c *client.BookingClient, out io.Writer) error {
				res, err := c.ToggleDeposit(ctx, &pb.IdRequest{Id: id})
				if err != nil {
					return err
				}
				state := "unpaid"
				if res.DepositPaid {
					state = "paid"
				}
				fmt.Fprintf(out, "Deposit of booking %d is now %s.\n", id, state)
				return nil
			})(cmd, args)
		},
	})
	return cmd
}

func bookingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "List bookings",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "unit UNIT_ID",
			Short: "List the bookings of a unit",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				unitID, err := parseID(args[0])
				if err != nil {
					return err
				}
				return a.run(func(ctx context.Context, c *client.BookingClient, out io.Writer) error {
					res, err := c.ListBookings(ctx, &pb.ListBookingsRequest{UnitId: unitID})
					if err != nil {
						return err
					}
					return printBookings(out, res.Bookings)
				})(cmd, args)
			},
		},
		&cobra.Command{
			Use:   "mine",
			Short: "List the bookings made by --user",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.requireUser(); err != nil {
					return err
				}
				return a.run(func(ctx context.Context, c *client.BookingClient, out io.Writer) error {
					res, err := c.ListBookingsForRequester(ctx, &pb.RequesterRequest{UserId: a.user})
					if err != nil {
						return err
					}
					return printBookings(out, res.Bookings)
				})(cmd, args)
			},
		},
	)
	return cmd
}

func freeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "free UNIT_ID PERIOD",
		Short: "Show the free dates of a unit inside a period",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			unitID, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.run(func(ctx context.Context, c *client.BookingClient, out io.Writer) error {
				free, err := c.Free(ctx, unitID, args[1])
				if err != nil {
					return err
				}
				if len(free) == 0 {
					fmt.Fprintln(out, "No free dates.")
					return nil
				}
				printRanges(out, free)
				return nil
			})(cmd, args)
		},
	}
}

func statsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show bookings and paid deposits per unit",
		Args:  cobra.NoArgs,
		RunE: a.run(func(ctx context.Context, c *client.BookingClient, out io.Writer) error {
			res, err := c.Statistics(ctx, &emptypb.Empty{})
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "UNIT\tNAME\tBOOKINGS\tPAID")
			for _, s := range res.Units {
				fmt.Fprintf(w, "%d\t%s\t%d\t%d\n", s.UnitId, s.Name, s.Bookings, s.Paid)
			}
			return w.Flush()
		}),
	}
}

func printRanges(out io.Writer, ranges []*pb.DateRange) {
	for _, r := range ranges {
		fmt.Fprintf(out, "  %s - %s\n", r.Start, r.End)
	}
}

func printBookings(out io.Writer, bookings []*pb.Booking) error {
	if len(bookings) == 0 {
		fmt.Fprintln(out, "No bookings.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUNIT\tUSER\tPERIOD\tDEPOSIT")
	for _, b := range bookings {
		deposit := "unpaid"
		if b.DepositPaid {
			deposit = "paid"
		}
		user := strconv.FormatInt(b.UserId, 10)
		if b.Username != "" {
			user += " (" + b.Username + ")"
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%s - %s\t%s\n", b.Id, b.UnitId, user, b.Range.Start, b.Range.End, deposit)
	}
	return w.Flush()
}
