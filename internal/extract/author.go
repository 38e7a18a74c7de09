package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// UncategorizedAuthor is the sentinel group for titles no heuristic could
// parse an author out of
const UncategorizedAuthor = "未分类"

// authorRules are tried in order against the bracketed-category title
// convention 【类型】作者名... used by the legacy site. The first rule
// whose capture passes the length gate wins.
var authorRules = []*regexp.Regexp{
	// 【类型】作者名「...」 or 【类型】作者名（...）
	regexp.MustCompile(`【[^】]+】\s*([^「（【\n]+?)\s*[「（]`),
	// 【类型】作者名 - 第X集
	regexp.MustCompile(`【[^】]+】\s*([^-–\n]+?)\s*[-–]\s*第?\d`),
	// 【类型】latin author name up to end or dash
	regexp.MustCompile(`【[^】]+】\s*([A-Za-z0-9_\-\s]+?)(?:\s*$|\s*[-–])`),
	// 【类型】longest unbroken run after the category marker
	regexp.MustCompile(`【[^】]+】\s*([^\s「【\-（]+)`),
}

// InferAuthor derives an author name from a free-text title.
//
// This is a best-effort parse over a loose human convention with no
// grammar behind it; anything the rules cannot pin down lands in the
// UncategorizedAuthor group.
func InferAuthor(title string) string {
	for _, rule := range authorRules {
		m := rule.FindStringSubmatch(title)
		if m == nil {
			continue
		}
		author := strings.TrimSpace(m[1])
		if n := utf8.RuneCountInString(author); n >= 2 && n <= 50 {
			return author
		}
	}
	return UncategorizedAuthor
}
