package main

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	findash "github.com/RxDataLab/go-findash"
)

func TestWriteIPOTableTruncatesByRune(t *testing.T) {
	var buf bytes.Buffer
	writeIPOTable(&buf, []findash.IPOEvent{{
		Date:   "2026-01-15",
		Symbol: "ZURI",
		Name:   "Zürich Überseeische Großhandels Aktiengesellschaft",
		Status: "expected",
	}})

	out := buf.String()
	if !utf8.ValidString(out) {
		t.Fatalf("table is not valid UTF-8: %q", out)
	}
	if !strings.Contains(out, "Zürich Überseeische Großhande...") {
		t.Errorf("name not truncated to 29 runes:\n%s", out)
	}
}
