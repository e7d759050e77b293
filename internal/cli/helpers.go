package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"wanderstay/internal/app/dto"
)

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeCards(w io.Writer, cards []dto.DestinationCard) error {
	writer := tabwriter.NewWriter(w, 2, 2, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tTITLE\tLOCATION\tRATING\tPRICE\tAMENITIES")
	for _, c := range cards {
		fmt.Fprintf(writer, "%d\t%s\t%s\t%.1f\t%d\t%s\n", c.ID, c.Title, c.Location, c.Rating, c.Price, strings.Join(c.Amenities, ", "))
	}
	return writer.Flush()
}

func writeDetail(w io.Writer, d dto.DestinationDetail) error {
	writer := tabwriter.NewWriter(w, 2, 2, 2, ' ', 0)
	fmt.Fprintf(writer, "%s\t%s\t%.1f\n", d.Title, d.Location, d.Rating)
	if d.HasBanquetHall {
		fmt.Fprintf(writer, "Banquet hall\tup to %d guests\t\n", d.HallCapacity)
	}
	fmt.Fprintln(writer, "\nROOM\tNAME\tTYPE\tPRICE\tCAPACITY")
	for _, r := range d.Rooms {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%d\t%d\n", r.ID, r.Name, r.Type, r.Price, r.Capacity)
	}
	fmt.Fprintln(writer, "\nVEHICLE\tNAME\tPRICE\tSEATS\t")
	for _, v := range d.Vehicles {
		fmt.Fprintf(writer, "%s\t%s\t%d\t%d\t\n", v.ID, v.Name, v.Price, v.Seats)
	}
	return writer.Flush()
}

func writeQuote(w io.Writer, q dto.Quote, requestedVehicle string) error {
	writer := tabwriter.NewWriter(w, 2, 2, 2, ' ', 0)
	for _, line := range q.Lines {
		detail := fmt.Sprintf("%s x%d", line.Unit, line.Quantity)
		if line.Nights > 0 {
			detail += fmt.Sprintf(" x%d nights", line.Nights)
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\n", line.Label, detail, line.Amount)
	}
	if requestedVehicle != "" && q.VehicleID == "" {
		fmt.Fprintf(writer, "Vehicle %s\tawaiting verification\t-\n", requestedVehicle)
	}
	fmt.Fprintf(writer, "Total\t\t%s\n", q.GrandTotal)
	if !q.IsBookable {
		fmt.Fprintln(writer, "Not bookable yet: choose a room.")
	}
	return writer.Flush()
}
