package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/alfredjeanlab/riskboard/internal/client"
)

// printJSON writes v as indented JSON. Non-ASCII text is kept as-is.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

func printExportResult(w io.Writer, res *client.ExportResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Export:\t%s\n", res.ExportID)
	fmt.Fprintf(tw, "Size:\t%s\n", humanize.Bytes(uint64(res.Bytes)))
	if !res.At.IsZero() {
		fmt.Fprintf(tw, "At:\t%s (%s)\n", res.At.Local().Format("2006-01-02 15:04:05"), humanize.Time(res.At))
	}
	if len(res.Destinations) > 0 {
		fmt.Fprintf(tw, "Written:\t%s\n", strings.Join(res.Destinations, ", "))
	}
	if len(res.Failed) > 0 {
		fmt.Fprintf(tw, "Failed:\t%s\n", strings.Join(res.Failed, ", "))
	}
	return tw.Flush()
}
