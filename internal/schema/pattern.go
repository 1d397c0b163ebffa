package schema

import (
	"regexp"
	"sync"
)

var (
	patternCacheMu sync.Mutex
	patternCache   = map[string]*regexp.Regexp{}
)

// matchPattern compiles (and caches) the schema's `pattern` constraint and
// reports whether str matches it. An invalid pattern never matches.
func matchPattern(pattern, str string) bool {
	patternCacheMu.Lock()
	re, ok := patternCache[pattern]
	if !ok {
		var err error
		re, err = regexp.Compile(pattern)
		if err != nil {
			re = nil
		}
		patternCache[pattern] = re
	}
	patternCacheMu.Unlock()

	if re == nil {
		return false
	}
	return re.MatchString(str)
}
