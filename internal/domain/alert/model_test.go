package alert

import (
	"testing"
)

func ids(alerts []Alert) []string {
	out := make([]string, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, a.AlertID)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestApply(t *testing.T) {
	alerts := []Alert{
		{AlertID: "1", Severity: "critical", Status: "new"},
		{AlertID: "2", Severity: "low", Status: "read"},
		{AlertID: "3", Severity: "CRITICAL", Status: "remediated"},
		{AlertID: "4", Severity: "high", Status: "new"},
		{AlertID: "5", Severity: "critical", Status: "New"},
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "no filter", filter: Filter{Limit: NoLimit}, want: []string{"1", "2", "3", "4", "5"}},
		{name: "severity is case-insensitive", filter: Filter{Severity: "Critical", Limit: 50}, want: []string{"1", "3", "5"}},
		{name: "status", filter: Filter{Status: "new", Limit: 50}, want: []string{"1", "4", "5"}},
		{name: "severity and status", filter: Filter{Severity: "critical", Status: "NEW", Limit: 50}, want: []string{"1", "5"}},
		{name: "limit truncates after filtering", filter: Filter{Severity: "critical", Limit: 2}, want: []string{"1", "3"}},
		{name: "zero limit keeps nothing", filter: Filter{Limit: 0}, want: []string{}},
		{name: "NoLimit disables truncation", filter: Filter{Limit: NoLimit}, want: []string{"1", "2", "3", "4", "5"}},
		{name: "no partial match", filter: Filter{Severity: "crit", Limit: 50}, want: []string{}},
		{name: "unknown status", filter: Filter{Status: "closed", Limit: 50}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Apply(alerts, tt.filter))
			if !equal(got, tt.want) {
				t.Errorf("Apply() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApply_SingleCriticalExample(t *testing.T) {
	alerts := []Alert{
		{AlertID: "a", Severity: "critical", Status: "new"},
		{AlertID: "b", Severity: "low", Status: "read"},
	}

	got := Apply(alerts, Filter{Severity: "critical", Limit: 50})
	if len(got) != 1 || got[0].AlertID != "a" {
		t.Errorf("Apply() = %v, want exactly alert a", ids(got))
	}
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	alerts := []Alert{{AlertID: "1", Severity: "low"}, {AlertID: "2", Severity: "high"}}
	_ = Apply(alerts, Filter{Severity: "high", Limit: 1})

	if alerts[0].AlertID != "1" || alerts[1].AlertID != "2" || len(alerts) != 2 {
		t.Errorf("input mutated: %v", ids(alerts))
	}
}

func TestApply_ZeroLimitFromForm(t *testing.T) {
	alerts := []Alert{
		{AlertID: "a", Severity: "critical", Status: "new"},
		{AlertID: "b", Severity: "low", Status: "read"},
	}

	if got := Apply(alerts, ParseFilter("", "", "0")); len(got) != 0 {
		t.Errorf("Apply() with limit 0 = %v, want none", ids(got))
	}
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name                    string
		severity, status, limit string
		want                    Filter
	}{
		{name: "empty", want: Filter{Limit: DefaultLimit}},
		{name: "trimmed", severity: " high ", status: "new ", limit: " 10", want: Filter{Severity: "high", Status: "new", Limit: 10}},
		{name: "non-numeric limit", limit: "ten", want: Filter{Limit: DefaultLimit}},
		{name: "negative limit", limit: "-5", want: Filter{Limit: 0}},
		{name: "unknown severity kept", severity: "urgent", want: Filter{Severity: "urgent", Limit: DefaultLimit}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseFilter(tt.severity, tt.status, tt.limit); got != tt.want {
				t.Errorf("ParseFilter() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSeverityRank(t *testing.T) {
	if SeverityRank("critical") >= SeverityRank("high") {
		t.Error("critical should rank before high")
	}
	if SeverityRank("LOW") != 3 {
		t.Errorf("SeverityRank(LOW) = %d, want 3", SeverityRank("LOW"))
	}
	if SeverityRank("info") != len(Severities) {
		t.Error("unknown severity should rank last")
	}
}
