package keymap

// Default returns the built-in feed reader bindings.
func Default() *Keymap {
	return &Keymap{
		Name:   "default",
		Source: "default",
		Bindings: []Entry{
			// Entries
			{Keys: "j", Command: "entry.next", Description: "Select next entry", Category: "Entries"},
			{Keys: "k", Command: "entry.previous", Description: "Select previous entry", Category: "Entries"},
			{Keys: "<Down>", Command: "entry.next", Description: "Select next entry", Category: "Entries"},
			{Keys: "<Up>", Command: "entry.previous", Description: "Select previous entry", Category: "Entries"},
			{Keys: "o", Command: "entry.open", Description: "Open entry", Category: "Entries"},
			{Keys: "<Enter>", Command: "entry.open", Description: "Open entry", Category: "Entries"},
			{Keys: "v", Command: "entry.visit", Description: "Visit entry website", Category: "Entries"},
			{Keys: "p", Command: "entry.pin", Description: "Pin entry", Category: "Entries"},
			{Keys: "m", Command: "entry.markRead", Description: "Mark entry as read", Category: "Entries"},
			{Keys: "c", Command: "entry.comments", Description: "Show comments", Category: "Entries"},
			{Keys: "f", Command: "entry.fullContent", Description: "Fetch full content", Category: "Entries"},

			// Scrolling
			{Keys: "g g", Command: "scroll.top", Description: "Scroll to top", Category: "Scrolling"},
			{Keys: "G", Command: "scroll.bottom", Description: "Scroll to bottom", Category: "Scrolling"},
			{Keys: "<Space>", Command: "scroll.pageDown", Description: "Scroll down a page", Category: "Scrolling"},
			{Keys: "<S-Space>", Command: "scroll.pageUp", Description: "Scroll up a page", Category: "Scrolling"},
			{Keys: "<C-d>", Command: "scroll.halfDown", Description: "Scroll down half a page", Category: "Scrolling"},
			{Keys: "<C-u>", Command: "scroll.halfUp", Description: "Scroll up half a page", Category: "Scrolling"},

			// Streams; "g" alone is ambiguous with "g g", "g s" and "g a"
			{Keys: "g", Command: "stream.next", Description: "Go to next subscription", Category: "Streams"},
			{Keys: "g s", Command: "stream.subscriptions", Description: "Go to subscriptions", Category: "Streams"},
			{Keys: "g a", Command: "stream.all", Description: "Go to all entries", Category: "Streams"},
			{Keys: "g p", Command: "stream.pinned", Description: "Go to pinned entries", Category: "Streams"},
			{Keys: "r", Command: "stream.reload", Description: "Reload stream", Category: "Streams"},
			{Keys: "<C-r>", Command: "stream.reload", Description: "Reload stream", Category: "Streams"},
			{Keys: "s r", Command: "stream.clearRead", Description: "Clear read entries", Category: "Streams"},

			// Application
			{Keys: "?", Command: "app.help", Description: "Show key bindings", Category: "Application"},
			{Keys: "<Bar>", Command: "app.toggleSidebar", Description: "Toggle sidebar", Category: "Application"},
			{Keys: "/", Command: "app.search", Description: "Search", Category: "Application"},
			{Keys: "<Esc>", Command: "app.cancel", Description: "Close overlays", Category: "Application"},
			{Keys: "q", Command: "app.quit", Description: "Quit", Category: "Application"},
		},
	}
}
