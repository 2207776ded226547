// internal/domain/models/icons.go
package models

// FallbackIcon is rendered when a record names an icon outside KnownIcons.
const FallbackIcon = "HelpCircle"

// KnownIcons is the icon set the site front end ships.
var KnownIcons = map[string]struct{}{
	"Award": {}, "BarChart": {}, "Briefcase": {}, "CheckCircle2": {}, "Cloud": {},
	"Code": {}, "Cpu": {}, "Database": {}, "Globe": {}, "HeartHandshake": {},
	"HelpCircle": {}, "Layers": {}, "Lightbulb": {}, "LineChart": {}, "Lock": {},
	"Megaphone": {}, "MonitorSmartphone": {}, "Palette": {}, "PenTool": {},
	"Rocket": {}, "Search": {}, "Server": {}, "Settings": {}, "ShieldCheck": {},
	"ShoppingCart": {}, "Smartphone": {}, "Sparkles": {}, "Target": {},
	"TrendingUp": {}, "Trophy": {}, "Users": {}, "Zap": {},
}

// ResolveIcon maps a stored icon name to one the front end can render.
// Unknown names are stored as-is and only replaced here.
func ResolveIcon(name string) string {
	if _, ok := KnownIcons[name]; ok {
		return name
	}
	return FallbackIcon
}
