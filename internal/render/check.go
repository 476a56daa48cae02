package render

import "shireesh.com/framegen/internal/subst"

// checkProjectName stands in for the real project name when a set is checked
// before any name is known. Every valid name resolves the same tokens.
const checkProjectName = "Project"

// Check reports every token of set that could not be resolved at render time,
// in path and body order, without stopping at the first one.
func (r *Renderer) Check(set Set, vars map[string]string) ([]error, error) {
	opts := append([]subst.Option{subst.WithVariables(vars)}, r.options...)
	sc, err := subst.NewContext(checkProjectName, opts...)
	if err != nil {
		return nil, err
	}
	if len(set.Files) == 0 {
		return []error{ErrEmptySet}, nil
	}

	var problems []error
	for _, f := range set.Files {
		for _, te := range sc.Check(f.Path) {
			problems = append(problems, &FileError{Path: f.Path, Part: "path", Err: te})
		}
		for _, te := range sc.Check(string(f.Body)) {
			problems = append(problems, &FileError{Path: f.Path, Part: "body", Err: te})
		}
	}
	return problems, nil
}
