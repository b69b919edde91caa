package tags

// DefaultColor is used for tags with no entry in the color table.
const DefaultColor = "#1f77b4"

// labelColors fixes the color per tag so labels look the same across
// projects.
var labelColors = map[string]string{
	// Languages
	"python":     "#3776ab",
	"javascript": "#f7df1e",
	"typescript": "#3178c6",
	"java":       "#ed8b00",
	"go":         "#00add8",
	"rust":       "#000000",

	// Categories
	"frontend":      "#61dafb",
	"backend":       "#8cc84b",
	"api":           "#ff6600",
	"database":      "#336791",
	"security":      "#dc3545",
	"performance":   "#28a745",
	"testing":       "#6f42c1",
	"documentation": "#6c757d",
	"config":        "#ffc107",

	// Severity
	"breaking-change":        "#dc3545",
	"security-review-needed": "#fd7e14",
	"needs-testing":          "#20c997",
	"ready-for-review":       "#28a745",

	// Status
	"ai-reviewed":   "#17a2b8",
	"high-priority": "#dc3545",
	"low-priority":  "#6c757d",
}

// ColorFor returns the fixed color for a tag, or DefaultColor.
func ColorFor(tag string) string {
	if color, ok := labelColors[tag]; ok {
		return color
	}
	return DefaultColor
}
