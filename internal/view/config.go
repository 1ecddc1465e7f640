package view

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/orion-ad/guardian/pkg/client"
)

// MsgNoConfig is shown before the backend config is known
const MsgNoConfig = "Configuration unavailable"

// Mode labels for the header indicator
const (
	ModeProduction  = "Production"
	ModeDevelopment = "Development"
)

// DevModeWarning is shown while the backend runs outside production mode
const DevModeWarning = "Development mode detected. For production, set PRODUCTION_MODE=true and replace the default API_KEY."

// Recommendations are always listed on the config tab
var Recommendations = []string{
	"Serve the dashboard and backend over HTTPS",
	"Back the backend with a persistent database",
	"Enable email or Slack notifications",
	"Configure log rotation",
}

// KeyValue is a generic label/value pair
type KeyValue struct {
	Key   string
	Value string
}

// ConfigView is the model behind the config tab
type ConfigView struct {
	Available    bool
	EmptyMessage string

	Version        string
	ProductionMode bool
	ModeLabel      string
	MaxAlerts      string
	RetentionDays  int
	AllowedOrigins []string
	Extra          []KeyValue

	Warning         string
	Recommendations []string
}

// ModeLabel returns the header indicator text
func ModeLabel(production bool) string {
	if production {
		return ModeProduction
	}
	return ModeDevelopment
}

// BuildConfig builds the config model; nil yields the empty state.
func BuildConfig(c *client.BackendConfig) ConfigView {
	if c == nil {
		return ConfigView{EmptyMessage: MsgNoConfig}
	}

	v := ConfigView{
		Available:       true,
		Version:         c.Version,
		ProductionMode:  c.ProductionMode,
		ModeLabel:       ModeLabel(c.ProductionMode),
		MaxAlerts:       FormatCount(c.MaxAlerts),
		RetentionDays:   c.AlertRetentionDays,
		AllowedOrigins:  c.AllowedOrigins,
		Recommendations: Recommendations,
	}
	if !c.ProductionMode {
		v.Warning = DevModeWarning
	}

	keys := make([]string, 0, len(c.Extra))
	for k := range c.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v.Extra = append(v.Extra, KeyValue{Key: k, Value: displayValue(c.Extra[k])})
	}

	return v
}

func displayValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return "null"
	case float64, bool:
		return fmt.Sprint(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
