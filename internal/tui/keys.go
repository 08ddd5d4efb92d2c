package tui

// KeyMap defines the key bindings for the application.
type KeyMap struct {
	Up     Key
	Down   Key
	Select Key
	Back   Key
	Quit   Key

	Inventory    Key
	LowStock     Key
	WasteLog     Key
	ShoppingList Key
	Report       Key

	UpdateCount Key
	LogWaste    Key
}

// Key represents a key binding.
type Key struct {
	Keys []string
	Help string
}

// Matches reports whether the pressed key is one of this binding's keys.
func (k Key) Matches(pressed string) bool {
	for _, key := range k.Keys {
		if key == pressed {
			return true
		}
	}
	return false
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:     Key{Keys: []string{"up", "k"}, Help: "up"},
		Down:   Key{Keys: []string{"down", "j"}, Help: "down"},
		Select: Key{Keys: []string{"enter"}, Help: "select"},
		Back:   Key{Keys: []string{"esc"}, Help: "back"},
		Quit:   Key{Keys: []string{"q", "ctrl+c"}, Help: "quit"},

		Inventory:    Key{Keys: []string{"1"}, Help: "inventory"},
		LowStock:     Key{Keys: []string{"2"}, Help: "low stock"},
		WasteLog:     Key{Keys: []string{"3"}, Help: "waste log"},
		ShoppingList: Key{Keys: []string{"4"}, Help: "shopping list"},
		Report:       Key{Keys: []string{"5"}, Help: "weekly report"},

		UpdateCount: Key{Keys: []string{"c"}, Help: "update count"},
		LogWaste:    Key{Keys: []string{"w"}, Help: "log waste"},
	}
}
