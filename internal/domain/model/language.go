package model

// Runtime pins a supported language to its default sandbox version and
// source-file extension.
type Runtime struct {
	Version   string
	Extension string
}

var Runtimes = map[string]Runtime{
	"javascript": {Version: "18.15.0", Extension: "js"},
	"cpp":        {Version: "10.2.0", Extension: "cpp"},
	"java":       {Version: "15.0.2", Extension: "java"},
	"python":     {Version: "3.10.0", Extension: "py"},
}

func RuntimeFor(language string) (Runtime, bool) {
	rt, ok := Runtimes[language]
	return rt, ok
}
