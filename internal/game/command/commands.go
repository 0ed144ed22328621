// Package command defines the player commands of the text game: their names,
// aliases and help text, a registry that resolves aliases, and a line parser.
package command

// Categories group commands in the help listing.
const (
	CategoryMovement = "movement"
	CategoryWorld    = "world"
	CategoryParty    = "party"
	CategoryItems    = "items"
	CategorySystem   = "system"
)

// Handler identifiers select the session routine that runs a command.
const (
	HandlerMove      = "move"
	HandlerLook      = "look"
	HandlerForage    = "forage"
	HandlerRest      = "rest"
	HandlerParty     = "party"
	HandlerSwap      = "swap"
	HandlerInventory = "inventory"
	HandlerCraft     = "craft"
	HandlerRecipes   = "recipes"
	HandlerStatus    = "status"
	HandlerSave      = "save"
	HandlerHelp      = "help"
	HandlerQuit      = "quit"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage shows the argument shape, e.g. "craft <recipe>". Empty means no arguments.
	Usage string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command in the help listing.
	Category string
	// Handler selects the session routine.
	Handler string
}

// BuiltinCommands returns all built-in commands for the game.
func BuiltinCommands() []Command {
	return []Command{
		{Name: "north", Aliases: []string{"n"}, Help: "Travel north", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "south", Aliases: []string{"s"}, Help: "Travel south", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "east", Aliases: []string{"e"}, Help: "Travel east", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "west", Aliases: []string{"w"}, Help: "Travel west", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "northeast", Aliases: []string{"ne"}, Help: "Travel northeast", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "northwest", Aliases: []string{"nw"}, Help: "Travel northwest", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "southeast", Aliases: []string{"se"}, Help: "Travel southeast", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "southwest", Aliases: []string{"sw"}, Help: "Travel southwest", Category: CategoryMovement, Handler: HandlerMove},
		{Name: "move", Aliases: []string{"go", "travel"}, Usage: "move <direction>", Help: "Travel in a direction", Category: CategoryMovement, Handler: HandlerMove},

		{Name: "look", Aliases: []string{"l"}, Help: "Describe the current region", Category: CategoryWorld, Handler: HandlerLook},
		{Name: "forage", Aliases: []string{"f"}, Help: "Search the region for resources", Category: CategoryWorld, Handler: HandlerForage},
		{Name: "rest", Aliases: []string{"r", "camp"}, Help: "Make camp and recover", Category: CategoryWorld, Handler: HandlerRest},

		{Name: "party", Aliases: []string{"p"}, Help: "List your monsters", Category: CategoryParty, Handler: HandlerParty},
		{Name: "swap", Aliases: []string{"switch"}, Usage: "swap <slot>", Help: "Make the monster in a party slot active", Category: CategoryParty, Handler: HandlerSwap},

		{Name: "inventory", Aliases: []string{"inv", "i"}, Help: "Show your bag", Category: CategoryItems, Handler: HandlerInventory},
		{Name: "craft", Aliases: []string{"c"}, Usage: "craft <recipe>", Help: "Craft an item from a recipe", Category: CategoryItems, Handler: HandlerCraft},
		{Name: "recipes", Aliases: nil, Help: "List known recipes", Category: CategoryItems, Handler: HandlerRecipes},

		{Name: "status", Aliases: []string{"stat", "vitals"}, Help: "Show your vitals", Category: CategorySystem, Handler: HandlerStatus},
		{Name: "save", Aliases: nil, Help: "Save your progress", Category: CategorySystem, Handler: HandlerSave},
		{Name: "help", Aliases: []string{"?", "h"}, Help: "Show available commands", Category: CategorySystem, Handler: HandlerHelp},
		{Name: "quit", Aliases: []string{"exit", "q"}, Help: "Leave the game", Category: CategorySystem, Handler: HandlerQuit},
	}
}

// IsDirectionCommand reports whether name is one of the compass movement commands.
func IsDirectionCommand(name string) bool {
	switch name {
	case "north", "south", "east", "west",
		"northeast", "northwest", "southeast", "southwest":
		return true
	default:
		return false
	}
}
