package domain

// Palette is the fixed cycle of member colors.
var Palette = []string{
	"#6366f1",
	"#3b82f6",
	"#10b981",
	"#f59e0b",
	"#ef4444",
	"#8b5cf6",
}

// ColorFor maps the n-th join into a room (zero based) onto the palette.
func ColorFor(n uint64) string {
	return Palette[n%uint64(len(Palette))]
}
