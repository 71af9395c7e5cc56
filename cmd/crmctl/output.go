package main

import (
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"
)

// stderr is where diagnostics go. Tests may replace it.
var stderr io.Writer = os.Stderr

func newTable(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	io.WriteString(tw, strings.Join(header, "\t")+"\n")
	return tw
}

func row(tw *tabwriter.Writer, cols ...string) {
	io.WriteString(tw, strings.Join(cols, "\t")+"\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}
