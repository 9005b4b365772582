package builder

type Stage int

const (
	Load Stage = iota
	Prepare
	Build
	Create
	Extract
	Teardown
)

func (s Stage) String() string {
	return [...]string{"load", "prepare", "build", "create", "extract", "teardown"}[s]
}
