package view

import (
	"sort"
	"strings"

	"github.com/orion-ad/guardian/internal/domain/alert"
	"github.com/orion-ad/guardian/pkg/client"
)

// MsgNoStatistics is shown before statistics are available
const MsgNoStatistics = "No statistics available"

// Display caps for the statistics lists
const (
	TopUsersLimit       = 10
	TopIPsLimit         = 10
	RecentActivityLimit = 20
)

// SeverityBar is one bar of the severity distribution
type SeverityBar struct {
	Severity string
	Class    string
	Count    int
	Width    float64 // percent of total, 0..100
}

// NamedCount is a label with a count
type NamedCount struct {
	Rank  int
	Name  string
	Count int
}

// ActivityItem is one recent activity row
type ActivityItem struct {
	client.ActivityEntry
	Class string
	Time  string
}

// StatisticsView is the model behind the statistics tab
type StatisticsView struct {
	Available    bool
	EmptyMessage string

	TotalAlerts    int
	RecentCount    int
	EventTypeCount int
	ActiveUsers    int

	Severity   []SeverityBar
	EventTypes []NamedCount
	TopUsers   []NamedCount
	TopIPs     []NamedCount
	Recent     []ActivityItem
}

// BarWidth returns count as a percentage of total, guarded against a zero
// or negative total and clamped to [0, 100].
func BarWidth(count, total int) float64 {
	if total <= 0 || count <= 0 {
		return 0
	}
	w := float64(count) / float64(total) * 100
	if w > 100 {
		return 100
	}
	return w
}

// BuildStatistics builds the statistics model; nil yields the empty state.
func BuildStatistics(s *client.Statistics) StatisticsView {
	if s == nil {
		return StatisticsView{EmptyMessage: MsgNoStatistics}
	}

	v := StatisticsView{
		Available:      true,
		TotalAlerts:    s.TotalAlerts,
		RecentCount:    len(s.RecentActivity),
		EventTypeCount: len(s.AlertsByType),
		ActiveUsers:    len(s.TopUsers),
	}

	severities := make([]string, 0, len(s.AlertsBySeverity))
	for sev := range s.AlertsBySeverity {
		severities = append(severities, sev)
	}
	sort.Slice(severities, func(i, j int) bool {
		ri, rj := alert.SeverityRank(severities[i]), alert.SeverityRank(severities[j])
		if ri != rj {
			return ri < rj
		}
		return strings.ToLower(severities[i]) < strings.ToLower(severities[j])
	})
	for _, sev := range severities {
		count := s.AlertsBySeverity[sev]
		v.Severity = append(v.Severity, SeverityBar{
			Severity: sev,
			Class:    SeverityClass(sev),
			Count:    count,
			Width:    BarWidth(count, s.TotalAlerts),
		})
	}

	for name, count := range s.AlertsByType {
		v.EventTypes = append(v.EventTypes, NamedCount{Name: name, Count: count})
	}
	sort.Slice(v.EventTypes, func(i, j int) bool {
		if v.EventTypes[i].Count != v.EventTypes[j].Count {
			return v.EventTypes[i].Count > v.EventTypes[j].Count
		}
		return v.EventTypes[i].Name < v.EventTypes[j].Name
	})
	for i := range v.EventTypes {
		v.EventTypes[i].Rank = i + 1
	}

	for i, u := range s.TopUsers {
		if i == TopUsersLimit {
			break
		}
		v.TopUsers = append(v.TopUsers, NamedCount{Rank: i + 1, Name: u.User, Count: u.Count})
	}
	for i, ip := range s.TopIPs {
		if i == TopIPsLimit {
			break
		}
		v.TopIPs = append(v.TopIPs, NamedCount{Rank: i + 1, Name: ip.IP, Count: ip.Count})
	}
	for i, a := range s.RecentActivity {
		if i == RecentActivityLimit {
			break
		}
		v.Recent = append(v.Recent, ActivityItem{
			ActivityEntry: a,
			Class:         SeverityClass(a.Severity),
			Time:          FormatEpoch(a.Timestamp),
		})
	}

	return v
}
