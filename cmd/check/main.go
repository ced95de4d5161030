// Command check fetches a postcode report from a running report service and
// renders it as text. It drives the same session state machine a UI client
// would, so validation failures and upstream errors surface exactly as a
// client sees them.
//
// Usage:
//
//	go run ./cmd/check -addr http://localhost:8080 -postcode "EC2A 4NE"
//
// Exit codes: 0 report rendered, 1 fetch failed, 2 invalid postcode.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/couchcryptid/postcode-report/internal/client"
	"github.com/couchcryptid/postcode-report/internal/domain"
	"github.com/couchcryptid/postcode-report/internal/session"
	"github.com/olekukonko/tablewriter"
)

func main() {
	addr := flag.String("addr", "http://localhost:8080", "base URL of the report service")
	postcode := flag.String("postcode", "", "UK postcode to report on")
	timeout := flag.Duration("timeout", 30*time.Second, "report request timeout")
	flag.Parse()

	if *postcode == "" {
		flag.Usage()
		os.Exit(2)
	}

	os.Exit(run(*addr, *postcode, *timeout))
}

func run(addr, postcode string, timeout time.Duration) int {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := session.NewMachine(client.New(addr, timeout, logger), logger)
	ctx := context.Background()

	state := m.Dispatch(ctx, session.PostcodeChanged{Text: postcode})
	if !state.CanSubmit() {
		fmt.Fprintln(os.Stderr, *state.ValidationError)
		return 2
	}

	m.Dispatch(ctx, session.Submit{})
	m.Wait()

	state = m.State()
	if state.Status == session.StatusError {
		fmt.Fprintf(os.Stderr, "report failed: %s\n", state.ErrorMessage)
		return 1
	}
	if state.Report == nil {
		fmt.Fprintln(os.Stderr, "no report returned")
		return 1
	}

	render(os.Stdout, *state.Report)
	return 0
}

func render(w io.Writer, rpt domain.Report) {
	loc := rpt.Location
	fmt.Fprintf(w, "Report %s (generated %s)\n", rpt.ID, rpt.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "%s: %s, %s (%.4f, %.4f)\n", loc.Postcode, loc.Town, loc.Region,
		loc.Position.Latitude, loc.Position.Longitude)
	fmt.Fprintf(w, "Distance to London: %.1f km\n", loc.DistanceToLondon)
	fmt.Fprintf(w, "Weather: %s [%s], average %.1f C\n\n", rpt.Weather.Type,
		rpt.Weather.Type.Abbreviation(), rpt.Weather.AverageTemperature)

	if len(rpt.Crimes) == 0 {
		fmt.Fprintln(w, "No street crime data available.")
		return
	}

	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"CRIME", "INCIDENTS"})
	tw.SetBorder(true)
	tw.SetRowLine(false)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	tw.SetAutoWrapText(false)

	for _, entry := range rpt.Crimes {
		tw.Append([]string{entry.Category, strconv.Itoa(entry.Incidents)})
	}
	tw.Render()
}
