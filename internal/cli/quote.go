package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"wanderstay/internal/app/commands"
	"wanderstay/internal/app/dto"
	bookingapp "wanderstay/internal/app/handlers/booking"
	"wanderstay/internal/app/queries"
)

type quoteFlags struct {
	destination   int
	room          string
	hall          bool
	vehicle       string
	licenceNumber string
	licenceImage  string
	aadhaarImage  string
	checkIn       string
	checkOut      string
	adults        int
	children      int
}

func quoteCmd(s *session) *cobra.Command {
	var f quoteFlags

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a stay with optional banquet hall and vehicle",
		Long: "Price a stay. A vehicle is only charged once both identity images are supplied;\n" +
			"without them the quote lists the vehicle as awaiting verification.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if f.destination <= 0 {
				return fmt.Errorf("--destination is required")
			}
			in := bookingapp.SelectionInput{
				DestinationID: f.destination,
				RoomID:        f.room,
				IncludeHall:   f.hall,
				VehicleID:     f.vehicle,
				Adults:        f.adults,
				Children:      f.children,
			}
			var err error
			if in.CheckIn, err = parseDateFlag("check-in", f.checkIn); err != nil {
				return err
			}
			if in.CheckOut, err = parseDateFlag("check-out", f.checkOut); err != nil {
				return err
			}

			ctx := cmd.Context()
			if f.vehicle != "" && (f.licenceImage != "" || f.aadhaarImage != "") {
				if in.VerificationID, err = verifyVehicle(ctx, s, f); err != nil {
					return err
				}
			}

			quote, err := queries.Ask[bookingapp.QuoteReservationQuery, dto.Quote](ctx, s.buses.Queries, bookingapp.QuoteReservationQuery{SelectionInput: in})
			if err != nil {
				return err
			}
			if s.opts.json {
				return writeJSON(cmd.OutOrStdout(), quote)
			}
			return writeQuote(cmd.OutOrStdout(), quote, f.vehicle)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&f.destination, "destination", 0, "Destination id")
	flags.StringVar(&f.room, "room", "", "Room id")
	flags.BoolVar(&f.hall, "hall", false, "Add the banquet hall")
	flags.StringVar(&f.vehicle, "vehicle", "", "Vehicle id")
	flags.StringVar(&f.licenceNumber, "licence-number", "", "Driving licence number")
	flags.StringVar(&f.licenceImage, "licence-image", "", "Path to the driving licence image")
	flags.StringVar(&f.aadhaarImage, "aadhaar-image", "", "Path to the Aadhaar card image")
	flags.StringVar(&f.checkIn, "check-in", "", "Check-in date (YYYY-MM-DD)")
	flags.StringVar(&f.checkOut, "check-out", "", "Check-out date (YYYY-MM-DD)")
	flags.IntVar(&f.adults, "adults", 1, "Adults")
	flags.IntVar(&f.children, "children", 0, "Children")
	return cmd
}

func verifyVehicle(ctx context.Context, s *session, f quoteFlags) (string, error) {
	licence, closeLicence, err := openUpload(f.licenceImage)
	if err != nil {
		return "", err
	}
	defer closeLicence()
	aadhaar, closeAadhaar, err := openUpload(f.aadhaarImage)
	if err != nil {
		return "", err
	}
	defer closeAadhaar()

	res, err := commands.Dispatch[bookingapp.VerifyVehicleCommand, *dto.VehicleVerification](ctx, s.buses.Commands, bookingapp.VerifyVehicleCommand{
		DestinationID: f.destination,
		VehicleID:     f.vehicle,
		LicenceNumber: f.licenceNumber,
		LicenceImage:  licence,
		AadhaarImage:  aadhaar,
	})
	if err != nil {
		return "", err
	}
	return res.VerificationID, nil
}

// openUpload returns a nil upload for an empty path so the handler reports the missing document.
func openUpload(path string) (*bookingapp.DocumentUpload, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open document: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("stat document: %w", err)
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &bookingapp.DocumentUpload{
		Filename:    filepath.Base(path),
		ContentType: contentType,
		Size:        info.Size(),
		Reader:      file,
	}, func() { file.Close() }, nil
}

func parseDateFlag(name, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s %q (expected YYYY-MM-DD)", name, raw)
	}
	return t, nil
}
