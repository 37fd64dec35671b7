// Package constants defines shared configuration constants.
package constants

var (
	ConfigFile = "config.yaml"

	DefaultDir = ".scriptdebug"

	// HistoryFile is the console history file name inside DefaultDir.
	HistoryFile = "console_history"

	// DwJSONFile is the commerce-platform project descriptor carrying hostname and credentials.
	DwJSONFile = "dw.json"

	// DefaultSourceRoot is the directory, relative to the project root, that script paths are
	// resolved against.
	DefaultSourceRoot = "cartridges"

	// SDAPIBasePath is the path prefix of the Script Debugger API.
	SDAPIBasePath = "/s/-/dw/debugger/v2_0"

	// ClientIDHeader carries the debugger client identifier on every SDAPI request.
	ClientIDHeader = "x-dw-client-id"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "SCRIPTDEBUG_"
)
