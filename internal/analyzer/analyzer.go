package analyzer

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/mcncl/jsonkit/internal/value"
)

// Format is a recognised shape of a string or number scalar
type Format string

const (
	FormatUUID      Format = "uuid"
	FormatTimestamp Format = "timestamp"
	FormatDate      Format = "date"
	FormatDateTime  Format = "datetime"
	FormatUnix      Format = "unix"
	FormatUnixMilli Format = "unix_milli"
)

// NameStyle is the casing convention of an object member name
type NameStyle string

const (
	StyleLower  NameStyle = "lower"
	StyleCamel  NameStyle = "camel"
	StylePascal NameStyle = "pascal"
	StyleSnake  NameStyle = "snake"
	StyleKebab  NameStyle = "kebab"
	StyleMixed  NameStyle = "mixed"
)

// Regex patterns for special formats
var (
	uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

	// Time format patterns (ordered by specificity - most specific first)
	rfc3339Regex       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`)            // 2006-01-02T15:04:05Z
	iso8601Regex       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?([+-]\d{2}:\d{2}|Z|[+-]\d{4})?$`) // ISO8601 variants
	dateOnlyRegex      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)                                                         // 2006-01-02
	dateTimeRegex      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(\.\d+)?$`)                               // 2006-01-02 15:04:05
	unixTimestampRegex = regexp.MustCompile(`^1[0-9]{9}$`)                                                                 // Unix timestamp (seconds since 1970)
	unixMilliRegex     = regexp.MustCompile(`^1[0-9]{12}$`)                                                                // Unix timestamp in milliseconds
)

// Stats summarises the shape of a value tree
type Stats struct {
	// Counts is the number of nodes of each kind, the root included
	Counts map[value.Kind]int
	// MaxDepth is the deepest container nesting; a scalar root has depth 0
	MaxDepth int
	// Members is the total number of object members
	Members int
	// Elements is the total number of array elements
	Elements int
	// Names holds every distinct member name, sorted
	Names []string
	// Formats counts scalars that look like identifiers or times
	Formats map[Format]int
	// NameStyles counts distinct member names by casing convention
	NameStyles map[NameStyle]int
}

// Nodes returns the total number of nodes
func (s Stats) Nodes() int {
	n := 0
	for _, c := range s.Counts {
		n += c
	}
	return n
}

// Summary renders counts as comma-separated name:count pairs sorted by name,
// for example "date:1,uuid:2". An empty map renders as "none".
func Summary[K comparable](counts map[K]int) string {
	if len(counts) == 0 {
		return "none"
	}
	pairs := make([]string, 0, len(counts))
	for k, n := range counts {
		pairs = append(pairs, fmt.Sprintf("%v:%d", k, n))
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

// Analyzer walks value trees and collects Stats
type Analyzer struct {
	stats Stats
	names map[string]struct{}
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze walks v and returns its statistics. An Analyzer may be reused; each
// call starts from zero.
func (a *Analyzer) Analyze(v value.Value) Stats {
	a.stats = Stats{
		Counts:     make(map[value.Kind]int),
		Formats:    make(map[Format]int),
		NameStyles: make(map[NameStyle]int),
	}
	a.names = make(map[string]struct{})

	a.analyzeNode(v, 0)

	a.stats.Names = make([]string, 0, len(a.names))
	for name := range a.names {
		a.stats.Names = append(a.stats.Names, name)
		a.stats.NameStyles[classifyName(name)]++
	}
	sort.Strings(a.stats.Names)
	return a.stats
}

// Analyze walks v with a fresh Analyzer
func Analyze(v value.Value) Stats {
	return NewAnalyzer().Analyze(v)
}

func (a *Analyzer) analyzeNode(v value.Value, depth int) {
	if v == nil {
		v = value.Null{}
	}
	a.stats.Counts[v.Kind()]++

	switch n := v.(type) {
	case value.String:
		if f, ok := analyzeString(string(n)); ok {
			a.stats.Formats[f]++
		}
	case value.Number:
		if f, ok := analyzeNumber(float64(n)); ok {
			a.stats.Formats[f]++
		}
	case *value.Array:
		a.enter(depth + 1)
		a.stats.Elements += n.Len()
		for _, item := range n.Items() {
			a.analyzeNode(item, depth+1)
		}
	case *value.Object:
		a.enter(depth + 1)
		a.stats.Members += n.Len()
		for _, m := range n.Members() {
			a.names[m.Name] = struct{}{}
			a.analyzeNode(m.Value, depth+1)
		}
	}
}

func (a *Analyzer) enter(depth int) {
	if depth > a.stats.MaxDepth {
		a.stats.MaxDepth = depth
	}
}

func analyzeString(s string) (Format, bool) {
	switch {
	case uuidRegex.MatchString(s):
		return FormatUUID, true
	case rfc3339Regex.MatchString(s), iso8601Regex.MatchString(s):
		return FormatTimestamp, true
	case dateOnlyRegex.MatchString(s):
		return FormatDate, true
	case dateTimeRegex.MatchString(s):
		return FormatDateTime, true
	}
	return "", false
}

func analyzeNumber(f float64) (Format, bool) {
	if f != math.Trunc(f) || f < 0 {
		return "", false
	}
	numStr := strconv.FormatFloat(f, 'f', -1, 64)

	// Unix timestamps are a common pattern in APIs
	switch {
	case unixTimestampRegex.MatchString(numStr):
		return FormatUnix, true
	case unixMilliRegex.MatchString(numStr):
		return FormatUnixMilli, true
	}
	return "", false
}

// classifyName compares name with its strcase conversions
func classifyName(name string) NameStyle {
	switch name {
	case strcase.ToLowerCamel(name):
		if strings.ToLower(name) == name {
			return StyleLower
		}
		return StyleCamel
	case strcase.ToCamel(name):
		return StylePascal
	case strcase.ToSnake(name):
		return StyleSnake
	case strcase.ToKebab(name):
		return StyleKebab
	}
	return StyleMixed
}
