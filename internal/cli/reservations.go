package cli

import (
	"github.com/spf13/cobra"

	"github.com/usestring/vra-mcp/internal/render"
)

type createdReservation struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (c createdReservation) String() string {
	return render.KeyValues([][2]string{{"ID", c.ID}, {"Name", c.Name}})
}

func newReservationsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reservations",
		Short: "List reservations and their allocation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := app.Session(ctx)
			if err != nil {
				return err
			}
			info, err := s.ReservationsInfo(ctx)
			if err != nil {
				return err
			}
			return app.print(reservationList(info))
		},
	}
	cmd.AddCommand(newReservationCloneCmd(app))
	return cmd
}

func newReservationCloneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clone <name> <source-id>",
		Short: "Create a reservation from an existing one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := app.Session(ctx)
			if err != nil {
				return err
			}
			id, err := s.CloneReservation(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			return app.print(createdReservation{ID: id, Name: args[0]})
		},
	}
}
