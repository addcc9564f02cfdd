package common

import (
	"os"
	"reflect"
	"regexp"
	"sort"
	"strings"
)

// envRefPattern matches ${NAME} references in configuration strings
var envRefPattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// ExpandReferences replaces ${NAME} references in input with values from vars.
// Unknown references are left unchanged and their names returned.
func ExpandReferences(input string, vars map[string]string) (string, []string) {
	if !strings.Contains(input, "${") {
		return input, nil
	}

	var missing []string
	out := envRefPattern.ReplaceAllStringFunc(input, func(match string) string {
		name := match[2 : len(match)-1]
		if value, ok := vars[name]; ok {
			return value
		}
		missing = append(missing, name)
		return match
	})
	return out, missing
}

// ExpandInStruct walks the string, []string and nested struct fields of the
// struct v points to and expands ${NAME} references in place. It returns the
// sorted, de-duplicated names that could not be resolved.
func ExpandInStruct(v interface{}, vars map[string]string) []string {
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Ptr || val.Elem().Kind() != reflect.Struct {
		return nil
	}

	seen := map[string]bool{}
	expandValue(val.Elem(), vars, seen)

	missing := make([]string, 0, len(seen))
	for name := range seen {
		missing = append(missing, name)
	}
	sort.Strings(missing)
	return missing
}

func expandValue(val reflect.Value, vars map[string]string, missing map[string]bool) {
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		if !field.CanSet() {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			out, unresolved := ExpandReferences(field.String(), vars)
			field.SetString(out)
			for _, name := range unresolved {
				missing[name] = true
			}

		case reflect.Struct:
			expandValue(field, vars, missing)

		case reflect.Slice:
			if field.Type().Elem().Kind() != reflect.String {
				continue
			}
			for j := 0; j < field.Len(); j++ {
				elem := field.Index(j)
				out, unresolved := ExpandReferences(elem.String(), vars)
				elem.SetString(out)
				for _, name := range unresolved {
					missing[name] = true
				}
			}
		}
	}
}

// environMap returns the process environment as a map
func environMap() map[string]string {
	env := os.Environ()
	vars := make(map[string]string, len(env))
	for _, kv := range env {
		if name, value, ok := strings.Cut(kv, "="); ok {
			vars[name] = value
		}
	}
	return vars
}
