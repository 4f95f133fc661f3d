package env

import (
	"fmt"
	"sort"

	"github.com/joho/godotenv"
)

// Environment is a named set of substitution variables.
type Environment struct {
	Name      string
	Variables map[string]string
}

func NewEnvironment(name string, vars map[string]string) *Environment {
	e := &Environment{
		Name:      name,
		Variables: make(map[string]string, len(vars)),
	}
	for k, v := range vars {
		e.Variables[k] = v
	}
	return e
}

// Clone returns a deep copy. Runs snapshot the current environment so a
// switch mid-run takes effect only on the next run.
func (e *Environment) Clone() *Environment {
	if e == nil {
		return nil
	}
	return NewEnvironment(e.Name, e.Variables)
}

// LoadDotenv reads a .env file into an environment named after the file.
func LoadDotenv(name, path string) (*Environment, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("loading env file %s: %w", path, err)
	}
	return NewEnvironment(name, vars), nil
}

// FromConfig builds environments out of a config file's environments
// section, in name order so listing is deterministic.
func FromConfig(section map[string]map[string]string) []*Environment {
	names := make([]string, 0, len(section))
	for name := range section {
		names = append(names, name)
	}
	sort.Strings(names)

	envs := make([]*Environment, 0, len(names))
	for _, name := range names {
		envs = append(envs, NewEnvironment(name, section[name]))
	}
	return envs
}
