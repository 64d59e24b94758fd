package timemap

import (
	"reflect"
	"regexp"
	"runtime"
	"strings"
)

var anonymousFunc = regexp.MustCompile(`(^|\.)(func|glob\.\.func)\d+(\.\d+)*$`)

// FunctionName returns the name of a Go function value, without its package
// path, or "" when fn is not a function or is an anonymous closure. Methods
// keep their receiver, e.g. "(*Widget).Resize".
func FunctionName(fn any) string {
	if isNil(fn) {
		return ""
	}

	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		return ""
	}

	f := runtime.FuncForPC(rv.Pointer())
	if f == nil {
		return ""
	}

	name := f.Name()
	name = name[strings.LastIndex(name, "/")+1:]

	if i := strings.Index(name, "."); i >= 0 {
		name = name[i+1:]
	}

	name = strings.TrimSuffix(name, "-fm")

	if anonymousFunc.MatchString(name) {
		return ""
	}

	return name
}

func nameOf(v any) string {
	if n, ok := v.(Named); ok {
		return n.Name()
	}

	return FunctionName(v)
}
