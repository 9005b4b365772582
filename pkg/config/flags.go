package config

const (
	DefaultImage = "jonah-build-image"
)

type Flags struct {
	EchoCommands bool
	Container    string
	Image        string
	NoColor      bool
	PrintVersion bool
	Verbose      bool
	WorkDir      string
}
