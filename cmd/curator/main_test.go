package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"hotel_curator/internal/app"
)

func TestReadRecords(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "hotels.json")
	if err := os.WriteFile(p, []byte(`[{"id":"h1","name":"Seaside Villa"},{"hotel_name":"Harbour Inn"}]`), 0o600); err != nil {
		t.Fatal(err)
	}
	recs, err := readRecords(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 || recs[0]["id"] != "h1" {
		t.Fatalf("records=%v", recs)
	}

	bad := filepath.Join(dir, "bad.json")
	_ = os.WriteFile(bad, []byte(`{"not":"an array"}`), 0o600)
	if _, err := readRecords(bad); err == nil {
		t.Fatal("want decode error for non-array input")
	}
}

func TestPrintReport(t *testing.T) {
	rep := app.RunReport{
		Results: []app.HotelResult{
			{HotelID: "h1", Outcome: app.OutcomeAccepted, Photos: 6},
			{HotelID: "h2", Outcome: app.OutcomeNotProcessed, Reason: "budget_exhausted"},
		},
		Counts: map[app.Outcome]int{app.OutcomeAccepted: 1, app.OutcomeNotProcessed: 1},
	}
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	printReport(cmd, rep, false)
	out := buf.String()
	if !strings.Contains(out, "budget_exhausted") || !strings.Contains(out, "accepted=1 rejected=0 incomplete=0 failed=0 not_processed=1") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	buf.Reset()
	printReport(cmd, rep, true)
	if !strings.Contains(buf.String(), `"hotel_id": "h1"`) {
		t.Fatalf("unexpected json:\n%s", buf.String())
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{"run": false, "score": false, "import": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, ok := range want {
		if !ok {
			t.Fatalf("command %q not registered", name)
		}
	}
}
