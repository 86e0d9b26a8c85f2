package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconCheck     = "✓"
	IconUnchecked = "·"
	IconWarning   = "!"
	IconCursor    = "›"
	IconArrowUp   = "▲"
	IconArrowDown = "▼"
)
