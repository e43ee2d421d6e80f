package cloud

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
)

var tagPattern = regexp.MustCompile(`^[a-z0-9-]*$`)

// TimestampedTag appends a launch timestamp so repeated runs under the same
// base tag stay distinguishable on the provider.
func TimestampedTag(tag string) string {
	return fmt.Sprintf("%s-%s", tag, time.Now().Format("0102-150405"))
}

// ValidateTag checks that tag is a legal name for cloud resources across the
// supported providers: lowercase, 1-63 characters, alphanumeric and hyphens
// only, no leading or trailing hyphen. All broken rules are reported at once.
func ValidateTag(tag string) error {
	var failed []string
	for _, c := range tag {
		if unicode.IsUpper(c) {
			failed = append(failed, "all letters must be lowercase")
			break
		}
	}
	if len(tag) < 1 || len(tag) > 63 {
		failed = append(failed, "must be between 1 and 63 characters long")
	}
	if tag != "" && (strings.HasPrefix(tag, "-") || strings.HasSuffix(tag, "-")) {
		failed = append(failed, "must not start or end with a hyphen")
	}
	if !tagPattern.MatchString(tag) {
		failed = append(failed, "must be alphanumeric and hyphens only")
	}

	if len(failed) > 0 {
		return fmt.Errorf("tag %q is invalid: %s", tag, strings.Join(failed, "; "))
	}
	return nil
}
